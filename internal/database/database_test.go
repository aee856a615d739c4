package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenSeedsLookups(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	tests := []struct {
		table string
		want  int
	}{
		{"frequencies", 4},
		{"workloads", 3},
		{"task_types", 3},
		{"members", 0},
		{"assignments", 0},
	}
	for _, tt := range tests {
		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + tt.table).Scan(&n); err != nil {
			t.Fatalf("count %s: %v", tt.table, err)
		}
		if n != tt.want {
			t.Errorf("%s has %d rows, want %d", tt.table, n, tt.want)
		}
	}
}

func TestOpenEnablesForeignKeys(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var on int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&on); err != nil {
		t.Fatalf("pragma: %v", err)
	}
	if on != 1 {
		t.Errorf("foreign_keys = %d, want 1", on)
	}
}

func TestReopenDoesNotReseed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "choreweek.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM frequencies").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 4 {
		t.Errorf("frequencies = %d after reopen, want 4", n)
	}
}

func TestSchemaVersion(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	v, err := SchemaVersion(context.Background(), db)
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if v != 2 {
		t.Errorf("version = %d, want 2", v)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	n, err := migrate(context.Background(), db)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if n != 0 {
		t.Errorf("applied %d migrations on a current schema, want 0", n)
	}
}

func TestDSN(t *testing.T) {
	got := dsn("data.db")
	if !strings.HasPrefix(got, "data.db?_pragma=") {
		t.Errorf("dsn = %q", got)
	}
	if !strings.Contains(got, "_pragma=foreign_keys(1)") {
		t.Errorf("dsn %q is missing foreign_keys", got)
	}
}
