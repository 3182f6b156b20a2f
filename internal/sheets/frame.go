package sheets

import (
	"fmt"
	"strings"
)

// Frame is a header-indexed view over the raw rows of one tab. The form
// backend writes duplicate headers (one block of identically named columns
// per participant slot), so headers are made unique before indexing: the
// second occurrence of "Name" becomes "Name1", the third "Name2", and spaces
// are replaced with underscores. The scheme is deterministic in first-seen
// order; downstream column lookups depend on it.
type Frame struct {
	headers []string
	index   map[string]int
	rows    [][]string
}

// NewFrame builds a Frame from raw cell values. headerRows rows are consumed
// from the top; the last of them supplies the column headers (the ledger tab
// carries a title row above its real header).
func NewFrame(raw [][]interface{}, headerRows int) (*Frame, error) {
	if len(raw) < headerRows {
		return nil, fmt.Errorf("table has %d rows, need %d header rows", len(raw), headerRows)
	}
	headers := MakeHeadersUnique(toStrings(raw[headerRows-1]))
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[h] = i
	}
	rows := make([][]string, 0, len(raw)-headerRows)
	for _, r := range raw[headerRows:] {
		rows = append(rows, toStrings(r))
	}
	return &Frame{headers: headers, index: index, rows: rows}, nil
}

// MakeHeadersUnique disambiguates duplicate headers by appending an
// incrementing numeric suffix in first-seen order, and replaces spaces with
// underscores. Repeated loads of the same header list yield identical output.
func MakeHeadersUnique(headers []string) []string {
	seen := map[string]int{}
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		n, dup := seen[h]
		if !dup {
			seen[h] = 0
			out = append(out, strings.ReplaceAll(h, " ", "_"))
			continue
		}
		seen[h] = n + 1
		out = append(out, strings.ReplaceAll(fmt.Sprintf("%s%d", h, n+1), " ", "_"))
	}
	return out
}

func (f *Frame) Len() int { return len(f.rows) }

// Lookup resolves a column name to its index. An unknown column means the
// sheet's shape no longer matches expectations.
func (f *Frame) Lookup(col string) (int, error) {
	i, ok := f.index[col]
	if !ok {
		return 0, fmt.Errorf("column %q not found", col)
	}
	return i, nil
}

func (f *Frame) Has(col string) bool {
	_, ok := f.index[col]
	return ok
}

// Get returns the cell at (row, col index), or "" for cells beyond the
// ragged row end.
func (f *Frame) Get(row, col int) string {
	if row < 0 || row >= len(f.rows) {
		return ""
	}
	r := f.rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// Cell is Get with a by-name column lookup, for one-off reads.
func (f *Frame) Cell(row int, col string) (string, error) {
	i, err := f.Lookup(col)
	if err != nil {
		return "", err
	}
	return f.Get(row, i), nil
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if v == nil {
			continue
		}
		out[i] = fmt.Sprint(v)
	}
	return out
}
