package metrics

import (
	"testing"
	"time"

	"github.com/park285/armourmail-go/internal/mail"
)

func TestStoreRecordScan(t *testing.T) {
	store := NewStore()
	store.RecordScan(mail.StatusQuarantined, 20*time.Millisecond)
	store.RecordScan(mail.StatusSuspicious, 10*time.Millisecond)
	store.RecordScan(mail.StatusSafe, 30*time.Millisecond)

	snapshot := store.Snapshot()
	if snapshot["total_scans"] != 3 {
		t.Fatalf("total_scans = %v", snapshot["total_scans"])
	}
	if snapshot["total_quarantined"] != 1 || snapshot["total_suspicious"] != 1 || snapshot["total_safe"] != 1 {
		t.Fatalf("status counters = %+v", snapshot)
	}
	if snapshot["total_duration_ms"] != 60 {
		t.Fatalf("total_duration_ms = %v", snapshot["total_duration_ms"])
	}
	if snapshot["avg_duration_ms"] != 20 {
		t.Fatalf("avg_duration_ms = %v", snapshot["avg_duration_ms"])
	}
}

func TestStoreRecordScanError(t *testing.T) {
	store := NewStore()
	store.RecordScanError(5 * time.Millisecond)

	snapshot := store.Snapshot()
	if snapshot["total_scan_errors"] != 1 {
		t.Fatalf("total_scan_errors = %v", snapshot["total_scan_errors"])
	}
	if snapshot["total_quarantined"] != 1 {
		t.Fatalf("scan error should count as quarantined, got %v", snapshot["total_quarantined"])
	}
	if snapshot["quarantine_rate"] != 1 {
		t.Fatalf("quarantine_rate = %v", snapshot["quarantine_rate"])
	}
}

func TestStoreSnapshotEmpty(t *testing.T) {
	snapshot := NewStore().Snapshot()
	if snapshot["avg_duration_ms"] != 0 || snapshot["quarantine_rate"] != 0 {
		t.Fatalf("empty store averages should be zero: %+v", snapshot)
	}
}
