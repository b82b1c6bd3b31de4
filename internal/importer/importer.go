// Package importer parses bulk lead files (JSON, CSV, XLSX) into
// validated leads ready for insertion. Column headers and enum values
// arrive in whatever language the prospecting sheet was built in, so
// every field goes through alias and accent normalization first.
package importer

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/eco-locaux/prospect-cli/internal/model"
)

// DefaultMaxRows caps a single import.
const DefaultMaxRows = 5000

// Options configures a parse run.
type Options struct {
	MaxRows int // 0 means DefaultMaxRows
}

// RowError reports a rejected row. Row is 1-based and counts data rows,
// not the header.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return eris.Wrapf(e.Err, "row %d", e.Row).Error()
}

// Result holds the accepted leads and the rows that failed validation.
// A file with some bad rows still yields the good ones.
type Result struct {
	Leads  []model.Lead
	Errors []RowError
}

// ParseFile dispatches on the file extension.
func ParseFile(path string, opts Options) (Result, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return Result{}, eris.Wrapf(err, "importer: open %s", path)
		}
		defer f.Close()
		return ParseJSON(f, opts)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return Result{}, eris.Wrapf(err, "importer: open %s", path)
		}
		defer f.Close()
		return ParseCSV(f, opts)
	case ".xlsx":
		return ParseXLSX(path, opts)
	default:
		return Result{}, eris.Errorf("importer: unsupported file type %q", filepath.Ext(path))
	}
}

// ParseJSON accepts either a single object or an array of objects.
func ParseJSON(r io.Reader, opts Options) (Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Result{}, eris.Wrap(err, "importer: read json")
	}

	var records []map[string]any
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(raw, &records); err != nil {
			return Result{}, eris.Wrap(err, "importer: decode json array")
		}
	} else {
		var one map[string]any
		if err := json.Unmarshal(raw, &one); err != nil {
			return Result{}, eris.Wrap(err, "importer: decode json object")
		}
		records = []map[string]any{one}
	}

	if err := checkRowCount(len(records), opts); err != nil {
		return Result{}, err
	}
	return buildResult(records), nil
}

// ParseCSV reads a header row followed by data rows.
func ParseCSV(r io.Reader, opts Options) (Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return Result{}, eris.Wrap(err, "importer: read csv")
	}
	if len(rows) == 0 {
		return Result{}, eris.New("importer: empty csv")
	}

	records := rowsToRecords(rows[0], rows[1:])
	if err := checkRowCount(len(records), opts); err != nil {
		return Result{}, err
	}
	return buildResult(records), nil
}

// ParseXLSX reads the first sheet of a workbook.
func ParseXLSX(path string, opts Options) (Result, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return Result{}, eris.Wrapf(err, "importer: open xlsx %s", path)
	}
	if len(f.Sheets) == 0 {
		return Result{}, eris.New("importer: xlsx has no sheets")
	}

	sheet := f.Sheets[0]
	var rows [][]string
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return Result{}, eris.New("importer: empty xlsx sheet")
	}

	records := rowsToRecords(rows[0], rows[1:])
	if err := checkRowCount(len(records), opts); err != nil {
		return Result{}, err
	}
	return buildResult(records), nil
}

func checkRowCount(n int, opts Options) error {
	max := opts.MaxRows
	if max <= 0 {
		max = DefaultMaxRows
	}
	if n == 0 {
		return eris.New("importer: no rows to import")
	}
	if n > max {
		return eris.Errorf("importer: %d rows exceeds limit of %d", n, max)
	}
	return nil
}

// rowsToRecords zips header cells with data cells, dropping blank rows.
func rowsToRecords(header []string, data [][]string) []map[string]any {
	var records []map[string]any
	for _, row := range data {
		blank := true
		rec := make(map[string]any, len(header))
		for i, h := range header {
			if i >= len(row) {
				break
			}
			v := strings.TrimSpace(row[i])
			if v == "" {
				continue
			}
			blank = false
			rec[h] = v
		}
		if !blank {
			records = append(records, rec)
		}
	}
	return records
}

func buildResult(records []map[string]any) Result {
	var res Result
	for i, rec := range records {
		lead, err := leadFromRecord(rec)
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: i + 1, Err: err})
			continue
		}
		res.Leads = append(res.Leads, lead)
	}
	return res
}
