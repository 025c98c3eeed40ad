package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/smartpass/internal/credential"
	"github.com/nao1215/smartpass/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *Store {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("unexpected path %s", db.Path())
		}
		if err := db.Ping(context.Background()); err != nil {
			t.Errorf("ping failed: %v", err)
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "nonexistent-db")
		_, err := Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err == nil {
			t.Fatal("expected error when CreateIfNotExists=false and database does not exist")
		}
		if !strings.Contains(err.Error(), "database not found") {
			t.Errorf("expected error to contain %q, got %q", "database not found", err.Error())
		}
		if _, statErr := os.Stat(dbDir); !os.IsNotExist(statErr) {
			t.Error("database directory should not have been created when CreateIfNotExists=false")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "existing-db")
		db1, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		if _, err := db1.InsertCredential(context.Background(), credential.Credential{Password: "p", HashedPassword: "h"}); err != nil {
			t.Fatalf("failed to insert: %v", err)
		}
		_ = db1.Close()

		db2, err := Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to open existing database: %v", err)
		}
		defer db2.Close()

		rec, err := db2.GetCredentialByHash(context.Background(), "h")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec == nil || rec.Password != "p" {
			t.Errorf("expected the stored credential to survive reopening, got %+v", rec)
		}
	})

	t.Run("opens without WAL", func(t *testing.T) {
		t.Parallel()

		db, err := Open(t.TempDir(), Options{CreateIfNotExists: true})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		_ = db.Close()
	})
}

// TestSchema checks the table names other tools read.
func TestSchema(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	for _, table := range []string{"passwords__list", "attack_results"} {
		var name string
		err := db.db.QueryRowContext(context.Background(),
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

// TestDefaultOptions tests the default options.
func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	if !opts.CreateIfNotExists {
		t.Error("expected CreateIfNotExists to be true by default")
	}
	if !opts.EnableWAL {
		t.Error("expected EnableWAL to be true by default")
	}
}

// TestCredentials tests storing and reading generated credentials.
func TestCredentials(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	first := credential.Credential{
		Password:          "Tr0ub4dor&3",
		EncryptedPassword: "00aa",
		Key:               "11bb",
		IV:                "22cc",
		HashedPassword:    "digest-1",
	}
	second := first
	second.Password = "other"
	second.HashedPassword = "digest-2"

	id1, err := db.InsertCredential(ctx, first)
	if err != nil {
		t.Fatalf("failed to insert credential: %v", err)
	}
	id2, err := db.InsertCredential(ctx, second)
	if err != nil {
		t.Fatalf("failed to insert credential: %v", err)
	}
	if id2 <= id1 {
		t.Errorf("expected increasing IDs, got %d then %d", id1, id2)
	}

	rec, err := db.GetCredentialByHash(ctx, "digest-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil {
		t.Fatal("expected a credential")
	}
	if rec.Credential != first {
		t.Errorf("got %+v, expected %+v", rec.Credential, first)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	missing, err := db.GetCredentialByHash(ctx, "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for an unknown digest, got %+v", missing)
	}

	all, err := db.ListCredentials(ctx, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 || all[0].HashedPassword != "digest-2" {
		t.Errorf("expected two credentials newest first, got %+v", all)
	}

	limited, err := db.ListCredentials(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected one credential, got %d", len(limited))
	}
}

// TestAttackResults tests storing and querying attack outcomes.
func TestAttackResults(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	records := []*AttackRecord{
		{
			TargetDigest: "aaa",
			Source:       "dictionnaire.txt",
			Result:       model.NewMatch(model.EngineDictionary, "blue", 2, 3*time.Millisecond),
		},
		{
			TargetDigest: "aaa",
			Source:       "ab/1-3",
			Result:       model.NewMiss(model.EngineBruteForce, model.ReasonAttemptsExhausted, 5, time.Millisecond).WithNextPosition(5),
		},
		{
			TargetDigest: "bbb",
			Source:       "dictionnaire.txt",
			Result:       model.NewMiss(model.EngineDictionary, model.ReasonInputExhausted, 3, 0),
		},
	}
	for _, rec := range records {
		if _, err := db.InsertAttackResult(ctx, rec); err != nil {
			t.Fatalf("failed to insert attack result: %v", err)
		}
		if rec.ID == 0 {
			t.Error("expected the record ID to be filled in")
		}
	}

	got, err := db.GetAttackResult(ctx, records[0].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Result != records[0].Result {
		t.Errorf("round trip mismatch: got %+v, expected %+v", got, records[0].Result)
	}

	none, err := db.GetAttackResult(ctx, 9999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if none != nil {
		t.Errorf("expected nil for unknown ID, got %+v", none)
	}

	tests := []struct {
		name   string
		filter AttackFilter
		want   []int64
	}{
		{name: "all newest first", filter: AttackFilter{}, want: []int64{records[2].ID, records[1].ID, records[0].ID}},
		{name: "by digest", filter: AttackFilter{TargetDigest: "aaa"}, want: []int64{records[1].ID, records[0].ID}},
		{name: "by engine", filter: AttackFilter{Engine: model.EngineDictionary}, want: []int64{records[2].ID, records[0].ID}},
		{name: "limit", filter: AttackFilter{Limit: 1}, want: []int64{records[2].ID}},
		{name: "no match", filter: AttackFilter{TargetDigest: "zzz"}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			list, err := db.ListAttackResults(ctx, tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(list) != len(tt.want) {
				t.Fatalf("expected %d records, got %d", len(tt.want), len(list))
			}
			for i, id := range tt.want {
				if list[i].ID != id {
					t.Errorf("record %d: expected ID %d, got %d", i, id, list[i].ID)
				}
			}
		})
	}
}

// TestLatestResumePosition tests resuming interrupted brute-force runs.
func TestLatestResumePosition(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	pos, err := db.LatestResumePosition(ctx, "ddd", "ab/1-3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos != 0 {
		t.Errorf("expected 0 with no history, got %d", pos)
	}

	insert := func(r model.AttackResult, source string) {
		t.Helper()
		if _, err := db.InsertAttackResult(ctx, &AttackRecord{TargetDigest: "ddd", Source: source, Result: r}); err != nil {
			t.Fatalf("failed to insert: %v", err)
		}
	}

	insert(model.NewMiss(model.EngineBruteForce, model.ReasonTimeExhausted, 7, 0).WithNextPosition(7), "ab/1-3")
	insert(model.NewMiss(model.EngineBruteForce, model.ReasonAttemptsExhausted, 100, 0).WithNextPosition(100), "abc/1-4")

	pos, err = db.LatestResumePosition(ctx, "ddd", "ab/1-3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos != 7 {
		t.Errorf("expected position 7, got %d", pos)
	}

	// a finished run leaves nothing to resume
	insert(model.NewMiss(model.EngineBruteForce, model.ReasonSpaceExhausted, 14, 0).WithNextPosition(14), "ab/1-3")
	pos, err = db.LatestResumePosition(ctx, "ddd", "ab/1-3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos != 0 {
		t.Errorf("expected nothing to resume after a finished run, got %d", pos)
	}
}

// TestParseTimestamp tests timestamp parsing with various formats.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		zero  bool
	}{
		{"2024-01-15 10:30:00", false},
		{"2024-01-15T10:30:00Z", false},
		{"2024-01-15T10:30:00", false},
		{"2024-01-15T10:30:00+09:00", false},
		{"not a timestamp", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := parseTimestamp(tt.input); got.IsZero() != tt.zero {
				t.Errorf("parseTimestamp(%q) = %v, zero expected %v", tt.input, got, tt.zero)
			}
		})
	}
}
