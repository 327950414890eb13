package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadCSV reads a long-format indication table. The file must carry a header
// naming at least Index, Indikation and the four feature columns; any other
// columns (channel, group, gain configuration) are ignored. Unparseable or
// placeholder feature values degrade to missing.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses a long-format table from r. See LoadCSV.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := map[string]int{}
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, required := range append([]string{"Index"}, FeatureColumns...) {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	t := &Table{}
	line := 1
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		line++
		field := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		rowID, err := strconv.Atoi(field("Index"))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad Index %q", line, field("Index"))
		}
		ind := Indication{Index: rowID}
		if n, err := strconv.Atoi(field("Indikation")); err == nil {
			ind.Indikation = n
		}
		for _, col := range FeatureColumns {
			raw := field(col)
			v := ParseValue(raw, FeatureUnits[col])
			if v.Missing && raw != "" && !strings.HasPrefix(raw, "---") {
				t.Findings = append(t.Findings, &ParseError{Column: col, Raw: raw})
			}
			ind.setFeature(col, v)
		}
		t.Rows = append(t.Rows, ind)
	}
	return t, nil
}
