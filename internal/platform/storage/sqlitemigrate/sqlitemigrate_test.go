package sqlitemigrate

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func TestApplyRecordsEachFile(t *testing.T) {
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"001_posts.sql":    {Data: []byte("-- +migrate Up\nCREATE TABLE posts(id INTEGER PRIMARY KEY);\n-- +migrate Down\nDROP TABLE posts;")},
		"002_comments.sql": {Data: []byte("CREATE TABLE comments(id INTEGER PRIMARY KEY);")},
		"README.md":        {Data: []byte("not a migration")},
	}
	if err := Apply(context.Background(), db, migrations, ""); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if got := countRows(t, db, "SELECT COUNT(*) FROM schema_migrations"); got != 2 {
		t.Fatalf("migration rows = %d, want 2", got)
	}
	for _, table := range []string{"posts", "comments"} {
		if !tableExists(t, db, table) {
			t.Fatalf("table %q missing after Apply", table)
		}
	}
}

func TestApplySkipsAppliedFiles(t *testing.T) {
	db := openInMemoryDB(t)
	migrations := fstest.MapFS{
		"001_posts.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE posts(id INTEGER PRIMARY KEY);")},
	}
	for range 2 {
		if err := Apply(context.Background(), db, migrations, ""); err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
	}
	if got := countRows(t, db, "SELECT COUNT(*) FROM schema_migrations"); got != 1 {
		t.Fatalf("migration rows = %d, want 1", got)
	}
}

func TestApplyLeavesFailedFileUnrecorded(t *testing.T) {
	db := openInMemoryDB(t)

	bad := fstest.MapFS{"001_posts.sql": {Data: []byte("CREAT TABLE posts(id INTEGER);")}}
	if err := Apply(context.Background(), db, bad, ""); err == nil {
		t.Fatal("expected malformed migration to fail")
	}
	if got := countRows(t, db, "SELECT COUNT(*) FROM schema_migrations"); got != 0 {
		t.Fatalf("migration rows = %d, want 0", got)
	}

	good := fstest.MapFS{"001_posts.sql": {Data: []byte("CREATE TABLE posts(id INTEGER PRIMARY KEY);")}}
	if err := Apply(context.Background(), db, good, ""); err != nil {
		t.Fatalf("Apply() fixed error = %v", err)
	}
	if got := countRows(t, db, "SELECT COUNT(*) FROM schema_migrations"); got != 1 {
		t.Fatalf("migration rows = %d, want 1", got)
	}
}

func TestApplyKeysByRoot(t *testing.T) {
	db := openInMemoryDB(t)
	migrations := fstest.MapFS{
		"sqlite/001_posts.sql": {Data: []byte("CREATE TABLE posts(id INTEGER PRIMARY KEY);")},
	}
	if err := Apply(context.Background(), db, migrations, "sqlite"); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	var key string
	if err := db.QueryRow("SELECT name FROM schema_migrations").Scan(&key); err != nil {
		t.Fatalf("read key: %v", err)
	}
	if key != "sqlite/001_posts.sql" {
		t.Fatalf("key = %q, want %q", key, "sqlite/001_posts.sql")
	}
}

func TestApplyRequiresDB(t *testing.T) {
	if err := Apply(context.Background(), nil, fstest.MapFS{}, ""); err == nil {
		t.Fatal("expected nil db error")
	}
}

func TestUpSection(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no markers", in: "CREATE TABLE a;", want: "CREATE TABLE a;"},
		{name: "up only", in: "-- +migrate Up\nCREATE TABLE a;", want: "\nCREATE TABLE a;"},
		{name: "up and down", in: "-- +migrate Up\nCREATE TABLE a;\n-- +migrate Down\nDROP TABLE a;", want: "\nCREATE TABLE a;\n"},
	}
	for _, tc := range tests {
		if got := UpSection(tc.in); got != tc.want {
			t.Fatalf("%s: UpSection() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestIsAlreadyExists(t *testing.T) {
	if IsAlreadyExists(nil) {
		t.Fatal("nil error reported as already exists")
	}
	if !IsAlreadyExists(errors.New("table posts already exists")) {
		t.Fatal("expected already exists match")
	}
	if !IsAlreadyExists(errors.New("duplicate column name: body")) {
		t.Fatal("expected duplicate column match")
	}
	if IsAlreadyExists(errors.New("syntax error")) {
		t.Fatal("syntax error reported as already exists")
	}
}

func openInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("close db: %v", err)
		}
	})
	return db
}

func countRows(t *testing.T, db *sql.DB, query string) int64 {
	t.Helper()
	var value int64
	if err := db.QueryRow(query).Scan(&value); err != nil {
		t.Fatalf("query %q: %v", query, err)
	}
	return value
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var found string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	if err != nil {
		t.Fatalf("check table %q: %v", name, err)
	}
	return found == name
}
