package main

import (
	"context"
	"errors"
	"testing"

	"price-dashboard/models"
	"price-dashboard/storage"
)

type recordingWriter struct {
	rows     int
	calls    int
	failOn   int
	closed   bool
	closeErr error
}

func (w *recordingWriter) WritePriced(rows []*models.PricedObservation) error {
	w.calls++
	if w.failOn > 0 && w.calls == w.failOn {
		return errors.New("disk full")
	}
	w.rows += len(rows)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return w.closeErr
}

type recordingArchiver struct {
	report *models.Report
	closed bool
}

func (a *recordingArchiver) Archive(_ context.Context, r *models.Report) (string, error) {
	a.report = r
	return "run-1", nil
}

func (a *recordingArchiver) Close() error {
	a.closed = true
	return nil
}

var (
	_ storage.PricedWriter = (*storage.CSVWriter)(nil)
	_ storage.RunArchiver  = (*storage.PostgresArchiver)(nil)
)

func testReport() *models.Report {
	row := &models.PricedObservation{Observation: models.Observation{Location: "Manila"}, Price: 400, Feasible: true}
	return &models.Report{
		Rule: "engagement-capped",
		Locations: []*models.LocationReport{
			{Location: "Manila", Rows: []*models.PricedObservation{row, row}},
			{Location: "Quezon City", Rows: []*models.PricedObservation{row}},
		},
	}
}

func TestExportReportWritesEveryLocation(t *testing.T) {
	w := &recordingWriter{}
	if err := exportReport(w, testReport()); err != nil {
		t.Fatalf("exportReport: %v", err)
	}
	if w.rows != 3 || w.calls != 2 {
		t.Errorf("wrote %d rows in %d calls; want 3 in 2", w.rows, w.calls)
	}
	if !w.closed {
		t.Error("writer was not closed")
	}
}

func TestExportReportErrors(t *testing.T) {
	w := &recordingWriter{failOn: 2}
	if err := exportReport(w, testReport()); err == nil {
		t.Error("expected write error")
	}
	if !w.closed {
		t.Error("writer should be closed after a failed write")
	}

	w = &recordingWriter{closeErr: errors.New("flush failed")}
	if err := exportReport(w, testReport()); err == nil {
		t.Error("expected close error to be returned")
	}
}

func TestArchiveReport(t *testing.T) {
	a := &recordingArchiver{}
	r := testReport()
	id, err := archiveReport(context.Background(), a, r)
	if err != nil {
		t.Fatalf("archiveReport: %v", err)
	}
	if id != "run-1" || a.report != r {
		t.Errorf("archived %v with id %q", a.report, id)
	}
	if !a.closed {
		t.Error("archiver was not closed")
	}
}
