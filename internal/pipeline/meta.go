package pipeline

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"cellcli/pkg/contracts/domain"
)

// fileMeta hashes and describes one source file. The hash lets a later
// run recognize an already-processed export.
func fileMeta(path string, rows int) (domain.FileMeta, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.FileMeta{}, fmt.Errorf("failed to open %s for hashing: %w", path, err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return domain.FileMeta{}, fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return domain.FileMeta{
		Path:        path,
		Filename:    filepath.Base(path),
		MD5:         hex.EncodeToString(h.Sum(nil)),
		Rows:        rows,
		ProcessedAt: time.Now().UTC(),
	}, nil
}

// buildRunMeta assembles run metadata from the final step slice.
func buildRunMeta(steps []domain.StepRecord, stepFile, detailFile domain.FileMeta, nominalCapacity float64) domain.RunMeta {
	meta := domain.RunMeta{
		RunID:           uuid.NewString(),
		StepFile:        stepFile,
		DetailFile:      detailFile,
		TotalSteps:      len(steps),
		StepTypes:       make(map[domain.StepType]int),
		NominalCapacity: nominalCapacity,
	}

	var crSum float64
	var crCount int
	for _, s := range steps {
		meta.StepTypes[s.StepType]++

		if meta.StartTime.IsZero() || s.StartTime.Before(meta.StartTime) {
			meta.StartTime = s.StartTime
		}
		end := s.StartTime
		if s.EndTime != nil {
			end = *s.EndTime
		}
		if end.After(meta.EndTime) {
			meta.EndTime = end
		}

		if s.SOCEnd != nil {
			if meta.SOCMin == nil || *s.SOCEnd < *meta.SOCMin {
				meta.SOCMin = domain.Float64(*s.SOCEnd)
			}
			if meta.SOCMax == nil || *s.SOCEnd > *meta.SOCMax {
				meta.SOCMax = domain.Float64(*s.SOCEnd)
			}
		}
		if s.CRate != nil {
			if meta.CRateMin == nil || *s.CRate < *meta.CRateMin {
				meta.CRateMin = domain.Float64(*s.CRate)
			}
			if meta.CRateMax == nil || *s.CRate > *meta.CRateMax {
				meta.CRateMax = domain.Float64(*s.CRate)
			}
			crSum += *s.CRate
			crCount++
		}
	}
	if crCount > 0 {
		meta.CRateAvg = domain.Float64(crSum / float64(crCount))
	}
	return meta
}
