package reference

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Response export column headers.
const (
	ColumnUserID   = "User ID"
	ColumnScene    = "Scene"
	ColumnVideoA   = "Video A Filename"
	ColumnVideoB   = "Video B Filename"
	ColumnListHash = "Video List Hash"
)

// ParseResponses reads a response export. Files ending in .xlsx are read from
// their first sheet; anything else is treated as CSV.
func ParseResponses(path string) ([]Record, error) {
	var (
		rows [][]string
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		rows, err = readXLSX(path)
	} else {
		rows, err = readCSVFile(path)
	}
	if err != nil {
		return nil, err
	}
	records, err := GroupRows(rows)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

// ReadCSV parses a CSV response export from r.
func ReadCSV(r io.Reader) ([]Record, error) {
	rows, err := readCSVRows(r)
	if err != nil {
		return nil, err
	}
	return GroupRows(rows)
}

func readCSVFile(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open responses: %w", err)
	}
	defer file.Close()
	return readCSVRows(file)
}

func readCSVRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// GroupRows turns header-led rows into per-user records. Rows keep file order
// within a user; rows without a user identifier are skipped. Records are
// sorted by user identifier.
func GroupRows(rows [][]string) ([]Record, error) {
	if len(rows) == 0 {
		return nil, ErrNoRecords
	}
	index := map[string]int{}
	for i, h := range rows[0] {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, required := range []string{ColumnUserID, ColumnScene, ColumnVideoA, ColumnVideoB} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}
	cell := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	byUser := map[string]*Record{}
	for _, row := range rows[1:] {
		user := cell(row, ColumnUserID)
		if user == "" {
			continue
		}
		rec, ok := byUser[user]
		if !ok {
			rec = &Record{UserID: user}
			byUser[user] = rec
		}
		if rec.ListHash == "" {
			rec.ListHash = cell(row, ColumnListHash)
		}
		rec.Entries = append(rec.Entries, Entry{
			Label:  cell(row, ColumnScene),
			VideoA: cell(row, ColumnVideoA),
			VideoB: cell(row, ColumnVideoB),
		})
	}
	if len(byUser) == 0 {
		return nil, ErrNoRecords
	}

	records := make([]Record, 0, len(byUser))
	for _, rec := range byUser {
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].UserID < records[j].UserID })
	return records, nil
}
