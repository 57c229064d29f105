package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestPgErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert failed: %w", &pgconn.PgError{Code: pgUniqueViolation})
	foreignKey := &pgconn.PgError{Code: pgForeignKeyViolation}

	if !isUniqueViolation(unique) {
		t.Fatal("expected wrapped 23505 to be a unique violation")
	}
	if isUniqueViolation(foreignKey) || isUniqueViolation(errors.New("plain")) {
		t.Fatal("expected only 23505 to be a unique violation")
	}
	if !isForeignKeyViolation(foreignKey) {
		t.Fatal("expected 23503 to be a foreign key violation")
	}
}

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "100.00", want: "100.00"},
		{raw: "0", want: "0.00"},
		{raw: "12.5", want: "12.50"},
		{raw: "abc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseNumeric(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.StringFixed(2) != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got.StringFixed(2))
			}
		})
	}
}
