package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Kosench/go-url-map/internal/config"
)

func TestOpen_SQLiteMemory(t *testing.T) {
	db, dialect, err := Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: MemoryPath})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if dialect != SQLite {
		t.Errorf("Open() dialect = %q, want %q", dialect, SQLite)
	}

	if err := HealthCheck(db); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}

	version, err := GetVersion(db, dialect)
	if err != nil {
		t.Fatalf("GetVersion() error = %v", err)
	}
	if !strings.HasPrefix(version, "SQLite ") {
		t.Errorf("GetVersion() = %q, want SQLite prefix", version)
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	if _, _, err := Open(config.DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Error("Open() expected error for unsupported driver")
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db, err := ConnectSQLite(filepath.Join(t.TempDir(), "maps.db"))
	if err != nil {
		t.Fatalf("ConnectSQLite() error = %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := Migrate(ctx, db, SQLite); err != nil {
			t.Fatalf("Migrate() run %d error = %v", i+1, err)
		}
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM url_maps").Scan(&count); err != nil {
		t.Fatalf("url_maps not created: %v", err)
	}
}

func TestMigrate_AliasUniqueAllowsManyNulls(t *testing.T) {
	db, err := ConnectSQLite(MemoryPath)
	if err != nil {
		t.Fatalf("ConnectSQLite() error = %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := Migrate(ctx, db, SQLite); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	insert := `INSERT INTO url_maps (id, short_code, long_url, alias_code, created_at, updated_at)
		VALUES ($1, $2, 'https://example.com', $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

	if _, err := db.ExecContext(ctx, insert, "1", "aaaaa", nil); err != nil {
		t.Fatalf("first insert error = %v", err)
	}
	if _, err := db.ExecContext(ctx, insert, "2", "bbbbb", nil); err != nil {
		t.Fatalf("second NULL alias rejected: %v", err)
	}
	if _, err := db.ExecContext(ctx, insert, "3", "ccccc", "fb"); err != nil {
		t.Fatalf("alias insert error = %v", err)
	}
	if _, err := db.ExecContext(ctx, insert, "4", "ddddd", "fb"); err == nil {
		t.Error("duplicate alias accepted, want unique violation")
	}
}
