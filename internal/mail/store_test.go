package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/park285/armourmail-go/internal/config"
	"github.com/park285/armourmail-go/internal/detector"
)

func newValkeyStore(t *testing.T) *Store {
	t.Helper()
	mini := miniredis.RunT(t)
	cfg := &config.Config{
		MailStore: config.MailStoreConfig{
			URL:          "redis://" + mini.Addr(),
			Enabled:      true,
			DisableCache: true,
			TTLHours:     1,
		},
	}
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
		mini.Close()
	})
	return store
}

func newTestMemoryStore(t *testing.T) *Store {
	t.Helper()
	cfg := &config.Config{
		MailStore: config.MailStoreConfig{Enabled: false, TTLHours: 1, MaxRecords: 100},
	}
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func testEmail(id string, status Status, receivedAt time.Time) *Email {
	return &Email{
		ID:         id,
		Sender:     "sender-" + id + "@example.com",
		Recipient:  "inbox@example.com",
		Subject:    "subject " + id,
		BodyPlain:  "body " + id,
		Status:     status,
		ReceivedAt: receivedAt,
		Scan: &ScanOutcome{
			ScanResult:  detector.ScanResult{RiskScore: 10},
			ThreatLevel: ThreatNone,
			ScannedAt:   receivedAt,
		},
	}
}

func TestNewStoreRequiredButDisabled(t *testing.T) {
	cfg := &config.Config{
		MailStore: config.MailStoreConfig{Enabled: false, Required: true},
	}
	if _, err := NewStore(cfg); err == nil {
		t.Fatalf("expected error")
	}
}

func TestStorePutGet(t *testing.T) {
	for name, store := range map[string]*Store{
		"memory": newTestMemoryStore(t),
		"valkey": newValkeyStore(t),
	} {
		email := testEmail("m1", StatusSafe, time.Now())
		if err := store.Put(context.Background(), email); err != nil {
			t.Fatalf("[%s] put: %v", name, err)
		}

		loaded, err := store.Get(context.Background(), "m1")
		if err != nil {
			t.Fatalf("[%s] get: %v", name, err)
		}
		if loaded.Sender != email.Sender || loaded.Status != StatusSafe {
			t.Fatalf("[%s] unexpected email: %+v", name, loaded)
		}
		if loaded.Scan == nil || loaded.Scan.RiskScore != 10 {
			t.Fatalf("[%s] scan outcome not preserved: %+v", name, loaded.Scan)
		}

		if _, err := store.Get(context.Background(), "absent"); !errors.Is(err, ErrEmailNotFound) {
			t.Fatalf("[%s] expected ErrEmailNotFound, got %v", name, err)
		}
	}
}

func TestStoreLargeBodyRoundTrip(t *testing.T) {
	store := newValkeyStore(t)

	email := testEmail("big", StatusSafe, time.Now())
	email.BodyPlain = strings.Repeat("The quick brown fox jumps over the lazy dog. ", 200)
	if err := store.Put(context.Background(), email); err != nil {
		t.Fatalf("put: %v", err)
	}

	loaded, err := store.Get(context.Background(), "big")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.BodyPlain != email.BodyPlain {
		t.Fatalf("large body not preserved")
	}
}

func TestStoreUpdateStatus(t *testing.T) {
	store := newTestMemoryStore(t)

	email := testEmail("q1", StatusQuarantined, time.Now())
	if err := store.Put(context.Background(), email); err != nil {
		t.Fatalf("put: %v", err)
	}

	updated, err := store.UpdateStatus(context.Background(), "q1", []Status{StatusQuarantined}, StatusApproved, "")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != StatusApproved {
		t.Fatalf("status = %s, want approved", updated.Status)
	}
	if updated.ProcessedAt == nil {
		t.Fatalf("processed_at not set")
	}

	// 이미 승인된 레코드는 다시 전이할 수 없다.
	if _, err := store.UpdateStatus(context.Background(), "q1", []Status{StatusQuarantined}, StatusRejected, "spam"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestStoreUpdateStatusRejectNote(t *testing.T) {
	store := newTestMemoryStore(t)

	if err := store.Put(context.Background(), testEmail("q2", StatusQuarantined, time.Now())); err != nil {
		t.Fatalf("put: %v", err)
	}
	updated, err := store.UpdateStatus(context.Background(), "q2", []Status{StatusQuarantined}, StatusRejected, "confirmed phishing")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.RejectNote != "confirmed phishing" {
		t.Fatalf("reject note = %q", updated.RejectNote)
	}
}

func TestStoreListNewestFirst(t *testing.T) {
	store := newTestMemoryStore(t)

	base := time.Now()
	for i := 0; i < 3; i++ {
		email := testEmail(fmt.Sprintf("m%d", i), StatusSafe, base.Add(time.Duration(i)*time.Minute))
		if err := store.Put(context.Background(), email); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	page, err := store.List(context.Background(), ListFilter{}, 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 3 || len(page.Items) != 3 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Items[0].ID != "m2" || page.Items[2].ID != "m0" {
		t.Fatalf("expected newest first, got %v", []string{page.Items[0].ID, page.Items[1].ID, page.Items[2].ID})
	}
}

func TestStoreListFilters(t *testing.T) {
	store := newTestMemoryStore(t)

	now := time.Now()
	if err := store.Put(context.Background(), testEmail("a", StatusSafe, now)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(context.Background(), testEmail("b", StatusQuarantined, now.Add(time.Second))); err != nil {
		t.Fatalf("put: %v", err)
	}

	page, err := store.List(context.Background(), ListFilter{Status: StatusQuarantined}, 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 || page.Items[0].ID != "b" {
		t.Fatalf("status filter failed: %+v", page)
	}

	page, err = store.List(context.Background(), ListFilter{Sender: "sender-a"}, 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 || page.Items[0].ID != "a" {
		t.Fatalf("sender filter failed: %+v", page)
	}
}

func TestStoreListQuarantinedFIFO(t *testing.T) {
	store := newValkeyStore(t)

	base := time.Now()
	for i := 0; i < 3; i++ {
		email := testEmail(fmt.Sprintf("q%d", i), StatusQuarantined, base.Add(time.Duration(i)*time.Minute))
		if err := store.Put(context.Background(), email); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	if err := store.Put(context.Background(), testEmail("safe", StatusSafe, base)); err != nil {
		t.Fatalf("put: %v", err)
	}

	page, err := store.ListQuarantined(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("list quarantined: %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("total = %d, want 3", page.Total)
	}
	if page.Items[0].ID != "q0" || page.Items[2].ID != "q2" {
		t.Fatalf("expected oldest first, got %v", []string{page.Items[0].ID, page.Items[1].ID, page.Items[2].ID})
	}
}

func TestStorePagination(t *testing.T) {
	store := newTestMemoryStore(t)

	base := time.Now()
	for i := 0; i < 5; i++ {
		if err := store.Put(context.Background(), testEmail(fmt.Sprintf("m%d", i), StatusSafe, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	page, err := store.List(context.Background(), ListFilter{}, 2, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 5 || page.TotalPages != 3 || len(page.Items) != 2 {
		t.Fatalf("unexpected pagination: %+v", page)
	}
}

func TestStoreCountAndPing(t *testing.T) {
	store := newValkeyStore(t)

	if err := store.Put(context.Background(), testEmail("c1", StatusSafe, time.Now())); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(context.Background(), testEmail("c2", StatusSafe, time.Now())); err != nil {
		t.Fatalf("put: %v", err)
	}

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}

	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestMemoryStoreEvictsOldest(t *testing.T) {
	cfg := &config.Config{
		MailStore: config.MailStoreConfig{Enabled: false, TTLHours: 1, MaxRecords: 2},
	}
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	base := time.Now()
	for i := 0; i < 3; i++ {
		if err := store.Put(context.Background(), testEmail(fmt.Sprintf("m%d", i), StatusSafe, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	if _, err := store.Get(context.Background(), "m0"); !errors.Is(err, ErrEmailNotFound) {
		t.Fatalf("oldest record should be evicted, got %v", err)
	}
	if _, err := store.Get(context.Background(), "m2"); err != nil {
		t.Fatalf("newest record should remain: %v", err)
	}
}
