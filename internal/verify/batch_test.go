package verify_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"cgreplay/internal/pairs"
	"cgreplay/internal/reference"
	"cgreplay/internal/testsupport"
	"cgreplay/internal/verify"
)

func TestCheckAllKeepsRecordOrder(t *testing.T) {
	videos := testsupport.ReferenceCatalog()
	var records []reference.Record
	for i := range 40 {
		records = append(records, recordFromSession(mustReproduce(t, fmt.Sprintf("user-%02d", i), videos)))
	}
	records[7].Entries[0], records[7].Entries[1] = records[7].Entries[1], records[7].Entries[0]

	reports, err := verify.CheckAll(context.Background(), records, videos, pairs.DefaultCount, 4)
	if err != nil {
		t.Fatalf("CheckAll: %v", err)
	}
	if len(reports) != len(records) {
		t.Fatalf("got %d reports, want %d", len(reports), len(records))
	}
	for i, r := range reports {
		if r.UserID != records[i].UserID {
			t.Fatalf("report %d is for %q, want %q", i, r.UserID, records[i].UserID)
		}
		if wantMatch := i != 7; r.Matched() != wantMatch {
			t.Fatalf("report %d matched=%v, want %v", i, r.Matched(), wantMatch)
		}
	}
}

func TestCheckAllInsufficientCatalog(t *testing.T) {
	records := []reference.Record{{UserID: "alice"}}
	_, err := verify.CheckAll(context.Background(), records, []string{"only.mp4"}, pairs.DefaultCount, 0)
	if !errors.Is(err, pairs.ErrInsufficientCatalog) {
		t.Fatalf("expected ErrInsufficientCatalog, got %v", err)
	}
}

func TestCheckAllCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	records := []reference.Record{{UserID: "alice"}, {UserID: "bob"}}
	if _, err := verify.CheckAll(ctx, records, testsupport.ReferenceCatalog(), pairs.DefaultCount, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
