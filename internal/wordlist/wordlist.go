// Package wordlist parses uploaded vocabulary files. Both CSV and XLSX
// uploads share the same column contract: a header row naming the expected
// columns, then one word per row. Rows with missing required fields are
// skipped rather than failing the whole upload.
package wordlist

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one parsed vocabulary entry. Chapter is only set for the flat
// level-wide format, where each row names the chapter it belongs to.
type Row struct {
	Order       int
	Korean      string
	Translation string
	Chapter     string
}

// ErrNoRows is returned for an upload with no data rows at all.
var ErrNoRows = errors.New("CSV has no rows.")

var (
	errChapterHeaders = errors.New("CSV headers must be exactly: order, korean, translation.")
	errFlatHeaders    = errors.New("CSV headers must be exactly: order, korean, translation, chapter.")
)

// ParseCSV reads a vocabulary CSV. withChapter selects the flat level-wide
// format that carries a chapter column. It returns the valid rows and the
// number of rows skipped for missing required fields.
func ParseCSV(r io.Reader, withChapter bool) ([]Row, int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, 0, err
	}
	return fromRecords(records, withChapter)
}

// ParseXLSX reads a vocabulary spreadsheet. The first sheet is used; its
// rows follow the same contract as the CSV format.
func ParseXLSX(r io.Reader, withChapter bool) ([]Row, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	records, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, 0, err
	}
	return fromRecords(records, withChapter)
}

func fromRecords(records [][]string, withChapter bool) ([]Row, int, error) {
	if len(records) == 0 {
		return nil, 0, ErrNoRows
	}

	idx, err := headerIndex(records[0], withChapter)
	if err != nil {
		return nil, 0, err
	}
	if len(records) == 1 {
		return nil, 0, ErrNoRows
	}

	var rows []Row
	skipped := 0
	for _, record := range records[1:] {
		row := Row{
			Order:       parseOrder(cell(record, idx["order"])),
			Korean:      cell(record, idx["korean"]),
			Translation: cell(record, idx["translation"]),
		}
		if withChapter {
			row.Chapter = cell(record, idx["chapter"])
		}
		if row.Korean == "" || row.Translation == "" || (withChapter && row.Chapter == "") {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

// headerIndex validates the header row and maps each expected column name to
// its position. Columns may appear in any order but no extras are allowed.
func headerIndex(header []string, withChapter bool) (map[string]int, error) {
	want := []string{"order", "korean", "translation"}
	headerErr := errChapterHeaders
	if withChapter {
		want = append(want, "chapter")
		headerErr = errFlatHeaders
	}

	if len(header) != len(want) {
		return nil, headerErr
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range want {
		if _, ok := idx[name]; !ok {
			return nil, headerErr
		}
	}
	return idx, nil
}

func cell(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// parseOrder is forgiving: a blank or non-numeric order sorts to 0 instead
// of rejecting the row.
func parseOrder(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
