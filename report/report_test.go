package report

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"testing"

	"timecard/ledger"
	"timecard/models"
)

func sampleDays() []ledger.DaySummary {
	return []ledger.DaySummary{
		{WorkerID: 2, Date: "2025-06-03", TotalHours: 13, RegularHours: 8, OvertimeHours: 4, DoubleTimeHours: 1, EntryCount: 2},
		{WorkerID: 1, Date: "2025-06-02", TotalHours: 8.5, RegularHours: 8, OvertimeHours: 0.5, EntryCount: 4},
		{WorkerID: 2, Date: "2025-06-02", TotalHours: 6, RegularHours: 6, EntryCount: 2},
	}
}

func TestProjectOrdersAndRounds(t *testing.T) {
	opts := Options{
		Statuses: map[ledger.DayKey]models.Status{
			{WorkerID: 1, Date: "2025-06-02"}: models.StatusApproved,
		},
		WorkerNames: map[uint]string{1: "Pat Mason", 2: "Lee Ortiz"},
	}

	rows := Project(sampleDays(), opts)
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 3 days + grand total", len(rows))
	}

	// Sorted by date, then worker.
	wantOrder := []struct {
		date   string
		worker uint
	}{
		{"2025-06-02", 1},
		{"2025-06-02", 2},
		{"2025-06-03", 2},
	}
	for i, want := range wantOrder {
		if rows[i].Date != want.date || rows[i].WorkerID != want.worker {
			t.Fatalf("row %d = (%s, %d), want (%s, %d)",
				i, rows[i].Date, rows[i].WorkerID, want.date, want.worker)
		}
	}

	if rows[0].TotalHours != "8.50" || rows[0].OvertimeHours != "0.50" {
		t.Fatalf("rounding: total=%s overtime=%s, want 8.50 / 0.50", rows[0].TotalHours, rows[0].OvertimeHours)
	}
	if rows[0].Status != "approved" {
		t.Fatalf("status = %s, want approved", rows[0].Status)
	}
	if rows[1].Status != "draft" {
		t.Fatalf("missing approval should project as draft, got %s", rows[1].Status)
	}
	if rows[0].Worker != "Pat Mason" {
		t.Fatalf("worker name = %s, want Pat Mason", rows[0].Worker)
	}

	total := rows[3]
	if total.Date != GrandTotalLabel {
		t.Fatalf("last row date = %s, want %s", total.Date, GrandTotalLabel)
	}
	if total.TotalHours != "27.50" || total.RegularHours != "22.00" ||
		total.OvertimeHours != "4.50" || total.DoubleTimeHours != "1.00" {
		t.Fatalf("grand total = %+v", total)
	}
	if total.EntryCount != 8 {
		t.Fatalf("grand total entries = %d, want 8", total.EntryCount)
	}
}

func TestProjectIsByteDeterministic(t *testing.T) {
	opts := Options{WorkerNames: map[uint]string{1: "Pat Mason", 2: "Lee Ortiz"}}

	render := func() []byte {
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		w.Write(Header())
		for _, row := range Project(sampleDays(), opts) {
			w.Write(row.Record())
		}
		w.Flush()
		return buf.Bytes()
	}

	first := render()
	second := render()
	if !bytes.Equal(first, second) {
		t.Fatalf("projections differ:\n%s\nvs\n%s", first, second)
	}
}

func TestRecordMatchesHeaderArity(t *testing.T) {
	rows := Project(sampleDays(), Options{})
	header := Header()
	for _, row := range rows {
		if len(row.Record()) != len(header) {
			t.Fatalf("record %v arity != header %v", row.Record(), header)
		}
	}
}

func TestProjectEmptyInputStillEmitsGrandTotal(t *testing.T) {
	rows := Project(nil, Options{})
	want := []Row{{
		Date:            GrandTotalLabel,
		TotalHours:      "0.00",
		RegularHours:    "0.00",
		OvertimeHours:   "0.00",
		DoubleTimeHours: "0.00",
	}}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %+v, want %+v", rows, want)
	}
}
