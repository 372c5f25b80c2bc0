// Package coa imports a hierarchical chart of accounts from CSV into every
// company, idempotently.
package coa

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

//go:embed tunisia_coa.csv
var bundledCSV string

// CSV column headers.
const (
	colAccountName         = "Account Name"
	colParentAccount       = "Parent Account"
	colAccountNumber       = "Account Number"
	colParentAccountNumber = "Parent Account Number"
	colIsGroup             = "Is Group"
	colAccountType         = "Account Type"
	colRootType            = "Root Type"
	colAccountCurrency     = "Account Currency"
)

// ErrMissingColumn is returned when the header lacks "Account Name".
var ErrMissingColumn = errors.New("missing required column")

// Row is one chart of accounts line. Rows are listed parents first.
type Row struct {
	// Line is the 1-based line number in the source file.
	Line int

	AccountName         string
	ParentAccount       string
	AccountNumber       string
	ParentAccountNumber string
	IsGroup             bool
	AccountType         string
	RootType            string
	AccountCurrency     string
}

// ParseCSV reads rows keyed by header name. Columns may appear in any
// order and missing optional columns read as empty.
func ParseCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	if _, ok := index[colAccountName]; !ok {
		return nil, fmt.Errorf("%w %q", ErrMissingColumn, colAccountName)
	}

	var rows []Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		row := Row{
			Line:                line,
			AccountName:         field(colAccountName),
			ParentAccount:       field(colParentAccount),
			AccountNumber:       field(colAccountNumber),
			ParentAccountNumber: field(colParentAccountNumber),
			AccountType:         field(colAccountType),
			RootType:            field(colRootType),
			AccountCurrency:     field(colAccountCurrency),
		}
		if g := field(colIsGroup); g != "" {
			n, err := strconv.Atoi(g)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid %s %q", line, colIsGroup, g)
			}
			row.IsGroup = n != 0
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// BundledRows returns the embedded Tunisian chart of accounts.
func BundledRows() ([]Row, error) {
	return ParseCSV(strings.NewReader(bundledCSV))
}
