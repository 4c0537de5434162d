package db

import (
	"strings"
	"testing"
)

func TestNormalizeMySQLDSN_SetsParseTime(t *testing.T) {
	got, err := normalizeMySQLDSN("app:secret@tcp(localhost:3306)/catalog")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if !strings.Contains(got, "parseTime=true") {
		t.Fatalf("expected parseTime=true in %q", got)
	}
	if !strings.HasPrefix(got, "app:secret@tcp(localhost:3306)/catalog") {
		t.Fatalf("unexpected dsn %q", got)
	}
}

func TestNormalizeMySQLDSN_RejectsGarbage(t *testing.T) {
	if _, err := normalizeMySQLDSN("not a dsn at all"); err == nil {
		t.Fatalf("expected parse error")
	}
}
