package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "votes-test"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndListRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	records := []VoteRecord{
		{Timestamp: "2026-03-01 12:00:00", Rating: 9, UserID: "42", DisplayName: "Aziz", Username: "@aziz42"},
		{Timestamp: "2026-03-01 12:05:00", Rating: 4, UserID: "77", DisplayName: "Olim"},
	}
	for _, rec := range records {
		if err := store.Append(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].UserID != "42" || got[0].Rating != 9 || got[0].Username != "@aziz42" {
		t.Fatalf("unexpected first record: %+v", got[0])
	}
	if got[1].Username != UsernameNone {
		t.Fatalf("missing username not recorded as sentinel: %+v", got[1])
	}
}

func TestListOnEmptyStore(t *testing.T) {
	t.Parallel()

	got, err := newTestStore(t).List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no records, got %d", len(got))
	}
}
