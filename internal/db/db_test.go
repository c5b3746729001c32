package db

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationsAreOrderedGooseFiles(t *testing.T) {
	entries, err := fs.ReadDir(migrations, "migrations")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) == 0 {
		t.Fatal("no embedded migrations")
	}
	prev := ""
	for _, e := range entries {
		name := e.Name()
		if name <= prev {
			t.Errorf("%s sorts before %s", name, prev)
		}
		prev = name
		body, err := fs.ReadFile(migrations, "migrations/"+name)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(body), "-- +goose Up") || !strings.Contains(string(body), "-- +goose Down") {
			t.Errorf("%s lacks goose annotations", name)
		}
	}
}

func TestOneOTPRowPerEmailIsEnforced(t *testing.T) {
	var found bool
	err := fs.WalkDir(migrations, "migrations", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		body, err := fs.ReadFile(migrations, path)
		if err != nil {
			return err
		}
		sql := strings.Join(strings.Fields(string(body)), " ")
		if strings.Contains(sql, "CREATE UNIQUE INDEX") &&
			strings.Contains(sql, "ON password_resets (email) WHERE otp IS NOT NULL") {
			found = true
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("no partial unique index on password_resets(email) for otp rows")
	}
}
