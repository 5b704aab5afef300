package repository_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/steward/pkg/repository"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

func TestMapError(t *testing.T) {
	other := errors.New("some other error")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, errNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), errNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, errDuplicate},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, errNotFound},
		{"passthrough", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.MapError(tt.err, errNotFound, errDuplicate)
			if got != tt.want {
				t.Errorf("MapError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	slugErr := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "trainings_slug_key"})

	if !repository.IsUniqueViolation(slugErr, "trainings_slug_key") {
		t.Error("expected match on named constraint")
	}
	if !repository.IsUniqueViolation(slugErr, "") {
		t.Error("expected match on any constraint")
	}
	if repository.IsUniqueViolation(slugErr, "trainings_document_id_key") {
		t.Error("unexpected match on other constraint")
	}
	if repository.IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Error("foreign key violation is not a unique violation")
	}
	if repository.IsUniqueViolation(errors.New("plain"), "") {
		t.Error("plain error is not a unique violation")
	}
}

func TestJSON(t *testing.T) {
	var nilSlice []string
	data, err := repository.JSON(nilSlice)
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("nil slice: got %s, want []", data)
	}

	var out []string
	if err := repository.UnmarshalJSON([]byte(`["a","b"]`), &out, "tags"); err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}
	if len(out) != 2 {
		t.Errorf("got %d items, want 2", len(out))
	}

	if err := repository.UnmarshalJSON([]byte(`{`), &out, "tags"); err == nil {
		t.Fatal("expected error for malformed json")
	}
}
