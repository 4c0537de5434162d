package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed sql/mysql/*.sql sql/postgres/*.sql
var embedded embed.FS

// Apply runs the embedded migrations for dialect (mysql or postgres) that
// have not been recorded in schema_migrations yet.
func Apply(ctx context.Context, db *sql.DB, dialect string) error {
	dir := path.Join("sql", dialect)
	if _, err := fs.Stat(embedded, dir); err != nil {
		return fmt.Errorf("no migrations for dialect %q", dialect)
	}
	return applyFS(ctx, db, embedded, dir, dialect)
}

func applyFS(ctx context.Context, db *sql.DB, fsys fs.FS, dir string, dialect string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return err
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(strings.ToLower(name), ".sql") {
			files = append(files, name)
		}
	}

	sort.Strings(files)

	if err := ensureSchemaMigrations(ctx, db, dialect); err != nil {
		return err
	}

	for _, name := range files {
		applied, err := isApplied(ctx, db, dialect, name)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		sqlBytes, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return err
		}

		for _, stmt := range SplitStatements(string(sqlBytes)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migration %s failed: %w", name, err)
			}
		}

		if err := markApplied(ctx, db, dialect, name); err != nil {
			return err
		}
	}

	return nil
}

// SplitStatements breaks a migration file into individual statements. A
// statement ends at a line whose last non-space character is ';'.
func SplitStatements(src string) []string {
	var (
		out []string
		cur strings.Builder
	)

	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		cur.WriteString(line)
		cur.WriteByte('\n')

		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSuffix(strings.TrimSpace(cur.String()), ";")
			if stmt != "" {
				out = append(out, stmt)
			}
			cur.Reset()
		}
	}

	if rest := strings.TrimSpace(cur.String()); rest != "" {
		out = append(out, rest)
	}
	return out
}

func ensureSchemaMigrations(ctx context.Context, db *sql.DB, dialect string) error {
	q := `
CREATE TABLE IF NOT EXISTS schema_migrations (
  name VARCHAR(255) NOT NULL,
  applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (name)
) ENGINE=InnoDB`
	if dialect == "postgres" {
		q = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  name TEXT PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	}
	_, err := db.ExecContext(ctx, q)
	return err
}

func placeholder(dialect string) string {
	if dialect == "postgres" {
		return "$1"
	}
	return "?"
}

func isApplied(ctx context.Context, db *sql.DB, dialect, name string) (bool, error) {
	var v string
	err := db.QueryRowContext(ctx, `SELECT name FROM schema_migrations WHERE name = `+placeholder(dialect), name).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func markApplied(ctx context.Context, db *sql.DB, dialect, name string) error {
	_, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES (`+placeholder(dialect)+`)`, name)
	return err
}
