package dataset

import (
	"strings"
	"testing"
)

var longCSV = strings.Join([]string{
	"Index,Indikation,A,DA,Gruppe,IUmr,Imr,Kanal,SA,Scan,vPa_A",
	"0,1,82.5 %,12.34 mm,1.0,--- mm,--- mm,K1,45.20 mm,100.00 mm,--- mm",
	"1,1,79.0 %,--- mm,1.0,--- mm,--- mm,K1,44.80 mm,105.00 mm,--- mm",
	"2,2,15.0 %,8.00 mm,2.0,--- mm,--- mm,K2,--- mm,210.00 mm,--- mm",
}, "\n")

func TestReadCSV(t *testing.T) {
	tab, err := ReadCSV(strings.NewReader(longCSV))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(tab.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(tab.Rows))
	}
	r0 := tab.Rows[0]
	if r0.Index != 0 || r0.Indikation != 1 {
		t.Fatalf("row 0 identity = %#v", r0)
	}
	if r0.A.Missing || !almostEqual(r0.A.Num, 82.5, 1e-9) {
		t.Fatalf("row 0 A = %#v", r0.A)
	}
	if r0.Scan.Missing || !almostEqual(r0.Scan.Num, 100, 1e-9) {
		t.Fatalf("row 0 Scan = %#v", r0.Scan)
	}
	if !tab.Rows[1].DA.Missing {
		t.Fatalf("row 1 DA should be missing, got %#v", tab.Rows[1].DA)
	}
	if !tab.Rows[2].SA.Missing {
		t.Fatalf("row 2 SA should be missing, got %#v", tab.Rows[2].SA)
	}
	if len(tab.Findings) != 0 {
		t.Fatalf("placeholders must not count as parse findings: %v", tab.Findings)
	}
}

func TestReadCSVRecordsUnparseableValues(t *testing.T) {
	in := strings.Join([]string{
		"Index,Indikation,A,DA,SA,Scan",
		"0,1,82.5 %,12.34 mm,garbled mm,100.00 mm",
	}, "\n")
	tab, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if !tab.Rows[0].SA.Missing {
		t.Fatalf("unparseable SA should degrade to missing, got %#v", tab.Rows[0].SA)
	}
	if len(tab.Findings) != 1 || tab.Findings[0].Column != "SA" || tab.Findings[0].Raw != "garbled mm" {
		t.Fatalf("findings = %v", tab.Findings)
	}
}

func TestReadCSVMissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Index,Indikation,A,DA,SA\n0,1,1 %,1 mm,1 mm"))
	if err == nil || !strings.Contains(err.Error(), "Scan") {
		t.Fatalf("expected missing-column error naming Scan, got %v", err)
	}
}

func TestReadCSVEmpty(t *testing.T) {
	tab, err := ReadCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadCSV on empty input: %v", err)
	}
	if len(tab.Rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(tab.Rows))
	}
}
