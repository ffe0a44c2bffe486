package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"cgreplay/internal/reference"
	"cgreplay/internal/store"
	"cgreplay/internal/testsupport"
	"cgreplay/internal/verify"
)

func sampleRecords() []reference.Record {
	return []reference.Record{
		{
			UserID:   "alice",
			ListHash: "1759670405",
			Entries: []reference.Entry{
				{Label: "Pair 6", VideoA: "d", VideoB: "c", Swapped: reference.BoolPtr(true)},
				{Label: "Pair 1", VideoA: "b", VideoB: "a"},
			},
		},
		{
			UserID: "bob",
			Entries: []reference.Entry{
				{Label: "Pair 3", VideoA: "a", VideoB: "d", Swapped: reference.BoolPtr(false)},
			},
		},
	}
}

func TestOpenCreatesDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)

	if s.Path() != cfg.DatabasePath() {
		t.Fatalf("got path %q want %q", s.Path(), cfg.DatabasePath())
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	users, err := reopened.Users(context.Background())
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected empty store, got %v", users)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	_ = s.Close()

	db, err := sql.Open("sqlite", cfg.DatabasePath())
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = db.Close()

	if _, err := store.Open(cfg); !errors.Is(err, store.ErrSchemaMismatch) {
		t.Fatalf("got %v want ErrSchemaMismatch", err)
	}
}

func TestImportRecordsRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	result, err := s.ImportRecords(ctx, "responses.csv", sampleRecords())
	if err != nil {
		t.Fatalf("ImportRecords: %v", err)
	}
	if result.BatchID == "" || result.Users != 2 || result.Entries != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}

	users, err := s.Users(ctx)
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if len(users) != 2 || users[0] != "alice" || users[1] != "bob" {
		t.Fatalf("got users %v", users)
	}

	rec, err := s.Record(ctx, "alice")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.ListHash != "1759670405" || len(rec.Entries) != 2 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	first := rec.Entries[0]
	if first.Label != "Pair 6" || first.VideoA != "d" || first.VideoB != "c" || first.Swapped == nil || !*first.Swapped {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	if rec.Entries[1].Swapped != nil {
		t.Fatalf("expected unrecorded swap flag to stay nil")
	}

	bob, err := s.Record(ctx, "bob")
	if err != nil {
		t.Fatalf("Record bob: %v", err)
	}
	if bob.Entries[0].Swapped == nil || *bob.Entries[0].Swapped {
		t.Fatalf("expected recorded false swap flag, got %+v", bob.Entries[0])
	}
}

func TestImportRecordsReplacesUser(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := s.ImportRecords(ctx, "first.csv", sampleRecords()); err != nil {
		t.Fatalf("first import: %v", err)
	}
	replacement := []reference.Record{{
		UserID:  "alice",
		Entries: []reference.Entry{{Label: "Pair 2", VideoA: "c", VideoB: "a"}},
	}}
	second, err := s.ImportRecords(ctx, "second.csv", replacement)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if second.Users != 1 {
		t.Fatalf("got %d users want 1", second.Users)
	}

	rec, err := s.Record(ctx, "alice")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(rec.Entries) != 1 || rec.Entries[0].Label != "Pair 2" || rec.ListHash != "" {
		t.Fatalf("expected replaced entries, got %+v", rec)
	}

	records, err := s.Records(ctx)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records want 2", len(records))
	}
}

func TestImportRecordsRejectsEmpty(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	if _, err := s.ImportRecords(context.Background(), "empty.csv", nil); !errors.Is(err, reference.ErrNoRecords) {
		t.Fatalf("got %v want ErrNoRecords", err)
	}
}

func TestImportRecordsLocked(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)

	other := flock.New(cfg.DatabasePath() + ".lock")
	ok, err := other.TryLock()
	if err != nil || !ok {
		t.Fatalf("take lock: ok=%v err=%v", ok, err)
	}
	t.Cleanup(func() { _ = other.Unlock() })

	if _, err := s.ImportRecords(context.Background(), "x.csv", sampleRecords()); !errors.Is(err, store.ErrLocked) {
		t.Fatalf("got %v want ErrLocked", err)
	}

	if err := other.Unlock(); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if _, err := s.ImportRecords(context.Background(), "x.csv", sampleRecords()); err != nil {
		t.Fatalf("import after unlock: %v", err)
	}
}

func TestRecordNotFound(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	if _, err := s.Record(context.Background(), "nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v want ErrNotFound", err)
	}
	if _, err := s.GetRun(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v want ErrNotFound", err)
	}
}

func TestSaveRunAndMismatches(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	reports := []verify.Report{
		{UserID: "alice", Seed: 253185475},
		{
			UserID: "bob",
			Seed:   4294967295,
			Cause:  verify.CauseOrientation,
			Mismatches: []verify.Mismatch{
				{Position: 2, Kind: verify.KindOrientation, ExpectedLabel: "Pair 3", ActualLabel: "Pair 3", ExpectedA: "a", ActualA: "d", ExpectedB: "d", ActualB: "a"},
				{Position: 5, Kind: verify.KindMissing, ExpectedLabel: "Pair 1", ExpectedA: "a", ExpectedB: "b"},
			},
			HashMismatch: true,
		},
	}
	older, err := s.SaveRun(ctx, store.Run{CatalogHash: 1, StartedAt: time.Now().Add(-time.Hour)}, nil)
	if err != nil {
		t.Fatalf("SaveRun older: %v", err)
	}
	run, err := s.SaveRun(ctx, store.Run{CatalogHash: 1759670405, CatalogSource: "fallback", Fallback: true}, reports)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if run.ID == "" || run.Users != 2 || run.Mismatched != 1 {
		t.Fatalf("unexpected run: %+v", run)
	}

	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != run.ID || runs[1].ID != older.ID {
		t.Fatalf("expected newest first, got %+v", runs)
	}
	if !runs[0].Fallback || runs[0].CatalogHash != 1759670405 || runs[0].CatalogSource != "fallback" {
		t.Fatalf("unexpected stored run: %+v", runs[0])
	}
	limited, err := s.ListRuns(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("ListRuns limit: %v %v", limited, err)
	}

	got, err := s.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Users != 2 || got.Mismatched != 1 {
		t.Fatalf("unexpected run: %+v", got)
	}

	results, err := s.RunResults(ctx, run.ID)
	if err != nil {
		t.Fatalf("RunResults: %v", err)
	}
	if len(results) != 2 || results[1].Seed != 4294967295 || results[1].Cause != verify.CauseOrientation || !results[1].HashMismatch {
		t.Fatalf("unexpected results: %+v", results)
	}
	if results[0].Cause != verify.CauseNone || results[0].Mismatches != 0 {
		t.Fatalf("unexpected matched result: %+v", results[0])
	}

	mismatches, err := s.RunMismatches(ctx, run.ID)
	if err != nil {
		t.Fatalf("RunMismatches: %v", err)
	}
	if len(mismatches) != 2 {
		t.Fatalf("got %d mismatches want 2", len(mismatches))
	}
	if mismatches[0].UserID != "bob" || mismatches[0].Kind != verify.KindOrientation || mismatches[0].ActualA != "d" {
		t.Fatalf("unexpected mismatch: %+v", mismatches[0])
	}
	if mismatches[1].Kind != verify.KindMissing || mismatches[1].ActualLabel != "" {
		t.Fatalf("unexpected missing mismatch: %+v", mismatches[1])
	}
}
