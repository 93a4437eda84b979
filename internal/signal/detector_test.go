package signal

import (
	"testing"
	"time"

	"OptionSentinel/internal/model"
)

var detectNow = time.Date(2025, 1, 2, 10, 15, 0, 0, time.UTC)

func TestDetect_OneCallSignalPerPass(t *testing.T) {
	d := NewDetector(500000, 200)
	rows := []model.SnapshotRow{
		{Strike: 24100, CallOIChange: -600000},
		{Strike: 24200, CallOIChange: -700000},
		{Strike: 24300, CallOIChange: -800000},
	}
	got := d.Detect(rows, detectNow)
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 signal, got %d", len(got))
	}
	sig := got[0]
	if sig.Label != "BUY CE 24300" {
		t.Errorf("label: expected BUY CE 24300 (first row + offset), got %q", sig.Label)
	}
	if sig.Strike != 24300 {
		t.Errorf("strike: expected 24300, got %v", sig.Strike)
	}
	if sig.Reason != "CALL OI down by 500000" {
		t.Errorf("reason: got %q", sig.Reason)
	}
	if sig.Timestamp != "2025-01-02 10:15:00" {
		t.Errorf("timestamp: got %q", sig.Timestamp)
	}
}

func TestDetect_CallAndPutIndependent(t *testing.T) {
	d := NewDetector(500000, 200)
	rows := []model.SnapshotRow{
		{Strike: 24100, CallOIChange: -500000},
		{Strike: 24200, PutOIChange: -900000},
	}
	got := d.Detect(rows, detectNow)
	if len(got) != 2 {
		t.Fatalf("expected 1 call + 1 put signal, got %d", len(got))
	}
	if got[0].Label != "BUY CE 24300" {
		t.Errorf("call label: got %q", got[0].Label)
	}
	if got[1].Label != "BUY PE 24400" {
		t.Errorf("put label: got %q", got[1].Label)
	}
}

func TestDetect_ThresholdBoundary(t *testing.T) {
	d := NewDetector(500000, 200)

	// Exactly at -threshold triggers; one above does not.
	rows := []model.SnapshotRow{{Strike: 24100, CallOIChange: -499999}}
	if got := d.Detect(rows, detectNow); len(got) != 0 {
		t.Fatalf("below threshold must not trigger, got %d signals", len(got))
	}
	rows = []model.SnapshotRow{{Strike: 24100, CallOIChange: -500000}}
	if got := d.Detect(rows, detectNow); len(got) != 1 {
		t.Fatalf("at threshold must trigger, got %d signals", len(got))
	}
}

func TestDetect_NoSignals(t *testing.T) {
	d := NewDetector(500000, 200)
	rows := []model.SnapshotRow{
		{Strike: 24100, CallOIChange: 100000, PutOIChange: -100000},
		{Strike: 24200, CallOIChange: -250000, PutOIChange: 400000},
	}
	if got := d.Detect(rows, detectNow); len(got) != 0 {
		t.Fatalf("expected no signals, got %d", len(got))
	}
}

func TestDetect_PositiveDropIgnored(t *testing.T) {
	// Large positive OI build-up is not a signal.
	d := NewDetector(500000, 200)
	rows := []model.SnapshotRow{{Strike: 24100, CallOIChange: 900000}}
	if got := d.Detect(rows, detectNow); len(got) != 0 {
		t.Fatalf("positive OI change must not trigger, got %d", len(got))
	}
}
