// Package transform reshapes wide inspection-report exports (one column group
// per indication, "Ind_<n>_Detail_<field>") into the long format the detection
// pipeline ingests: one row per indication with unit-tagged value strings.
package transform

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var detailCol = regexp.MustCompile(`^Ind_(\d+)(?:\s\*)?_Detail_(.+)$`)

// longColumns is the output order of the long-format table.
var longColumns = []string{"Index", "Indikation", "A", "DA", "Gruppe", "IUmr", "Imr", "Kanal", "SA", "Scan", "vPa_A"}

// The long format trails three gain/gate configuration columns taken from the
// report level of the wide table, not from the indication groups. Header
// quirks (the leading space, the repeated name) are part of the format.
var trailerColumns = []string{
	" PA_1_rueckwaerts_Konfiguration_Verstaerkung",
	"PA_2_vorwaerts_Konfiguration_Verstaerkung",
	"PA_2_vorwaerts_Konfiguration_Verstaerkung",
}

// detail fields grouped by the unit suffix they carry in the long format.
var (
	percentFields = map[string]bool{"A": true}
	mmFields      = map[string]bool{"DA": true, "SA": true, "Scan": true, "IUmr": true, "Imr": true, "vPa_A": true}
)

// File converts the wide CSV at inPath into a long-format CSV at outPath.
func File(inPath, outPath string) (rows int, err error) {
	in, err := os.Open(inPath)
	if err != nil {
		return 0, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()
	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return Reshape(in, out)
}

// Reshape streams the wide table from r and writes the long table to w,
// returning the number of long rows produced. Indications without an
// amplitude value are skipped entirely (they carry no reading). Rows are
// grouped by indication number with sequential indices reassigned, matching
// the layout of the original converter.
func Reshape(r io.Reader, w io.Writer) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}

	// column index per (indication number, field name)
	type key struct {
		ind   int
		field string
	}
	cols := map[key]int{}
	indSet := map[int]bool{}
	wideIdx := map[string]int{}
	for i, name := range header {
		name = strings.TrimSpace(name)
		wideIdx[name] = i
		m := detailCol.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		cols[key{n, m[2]}] = i
		indSet[n] = true
	}
	indications := make([]int, 0, len(indSet))
	for n := range indSet {
		indications = append(indications, n)
	}
	sort.Ints(indications)

	type longRow struct {
		indication int
		values     map[string]string
		trailer    []string
	}
	var rows []longRow
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, fmt.Errorf("read row: %w", err)
		}
		field := func(ind int, name string) string {
			i, ok := cols[key{ind, name}]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		wide := func(name string) string {
			i, ok := wideIdx[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		trailer := trailerValues(wide)
		for _, ind := range indications {
			if field(ind, "A") == "" {
				continue
			}
			vals := map[string]string{}
			for _, name := range longColumns[2:] {
				vals[name] = formatField(name, field(ind, name))
			}
			rows = append(rows, longRow{indication: ind, values: vals, trailer: trailer})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].indication < rows[j].indication })

	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string(nil), longColumns...), trailerColumns...)); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		rec := make([]string, 0, len(longColumns)+len(trailerColumns))
		rec = append(rec, strconv.Itoa(i), strconv.Itoa(row.indication))
		for _, name := range longColumns[2:] {
			rec = append(rec, row.values[name])
		}
		rec = append(rec, row.trailer...)
		if err := cw.Write(rec); err != nil {
			return 0, fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return len(rows), cw.Error()
}

// trailerValues builds the three report-level configuration cells. The gain
// column passes through as-is, the second cell is fed from the gate-height
// column with a unit appended, and the third repeats the raw gain value of
// the forward probe.
func trailerValues(wide func(string) string) []string {
	pa1 := wide("PA_1_rueckwaerts_Konfiguration_Verstaerkung")
	if pa1 == "" {
		pa1 = "---"
	}
	pa2 := "--- mm"
	if v := wide("PA_2_vorwaerts_Blende_I_Hoehe"); v != "" && v != "---" {
		pa2 = v + " mm"
	}
	pa3 := wide("PA_2_vorwaerts_Konfiguration_Verstaerkung")
	if pa3 == "" {
		pa3 = "---"
	}
	return []string{pa1, pa2, pa3}
}

// formatField applies the unit-suffixed formatting of the long format.
func formatField(name, raw string) string {
	switch {
	case percentFields[name]:
		if raw == "" || raw == "---" {
			return "--- %"
		}
		return raw + " %"
	case mmFields[name]:
		// A cell already carrying a unit is converter residue, not a reading;
		// the original collapses it to the placeholder.
		if raw == "" || raw == "---" || strings.Contains(raw, "mm") {
			return "--- mm"
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return fmt.Sprintf("%.2f mm", f)
		}
		return "--- mm"
	case name == "Gruppe":
		if raw == "" || raw == "---" {
			return "---"
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return strconv.FormatFloat(f, 'f', 1, 64)
		}
		return raw
	default:
		if raw == "" {
			return "---"
		}
		return raw
	}
}
