package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// readRawTable reads a delimited table file (.csv or .xlsx) and returns
// its header row and data rows as strings.
func readRawTable(path string) ([]string, [][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return readExcelTable(path)
	default:
		return readCSVTable(path)
	}
}

func readCSVTable(path string) ([]string, [][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	decoded, err := decodeToUTF8(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.FieldsPerRecord = -1 // vendor exports pad rows inconsistently
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("file %s contains no rows", filepath.Base(path))
	}

	headers := trimAll(records[0])
	return headers, records[1:], nil
}

func readExcelTable(path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	// Take the first sheet that actually carries a table.
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) < 2 {
			continue
		}
		header := headerRowIndex(rows)
		if header < 0 {
			continue
		}
		return trimAll(rows[header]), rows[header+1:], nil
	}

	return nil, nil, fmt.Errorf("no sheet with tabular data found in %s", filepath.Base(path))
}

// headerRowIndex finds the first row that looks like a header: at least
// two non-empty cells.
func headerRowIndex(rows [][]string) int {
	for i, row := range rows {
		filled := 0
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				filled++
			}
		}
		if filled >= 2 {
			return i
		}
	}
	return -1
}

// decodeToUTF8 normalizes the byte stream of a cycler CSV export. Vendors
// ship UTF-8 (with or without BOM), UTF-16, Big5 or GBK depending on the
// workstation locale; header matching downstream expects UTF-8.
func decodeToUTF8(raw []byte) ([]byte, error) {
	// BOM-marked files are unambiguous.
	switch {
	case bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}):
		return raw[3:], nil
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}), bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		return decodeWith(raw, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM))
	}

	if utf8.Valid(raw) {
		return raw, nil
	}

	// Legacy CJK code pages, most common first.
	for _, enc := range []encoding.Encoding{
		traditionalchinese.Big5,
		simplifiedchinese.GBK,
	} {
		if out, err := decodeWith(raw, enc); err == nil && utf8.Valid(out) {
			return out, nil
		}
	}

	return nil, fmt.Errorf("unrecognized character encoding")
}

func decodeWith(raw []byte, enc encoding.Encoding) ([]byte, error) {
	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	return out, err
}

func trimAll(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.TrimSpace(cell)
	}
	return out
}
