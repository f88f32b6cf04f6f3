package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatal("expected true for sql.ErrNoRows")
	}
	if !isNotFound(fmt.Errorf("get user: %w", sql.ErrNoRows)) {
		t.Fatal("expected true for wrapped sql.ErrNoRows")
	}
	if isNotFound(errors.New("pq: relation users does not exist")) {
		t.Fatal("expected false for unrelated error")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	unique := &pq.Error{Code: "23505", Constraint: "users_email_key"}
	if !isUniqueViolation(unique) {
		t.Fatal("expected true for 23505")
	}
	if !isUniqueViolation(fmt.Errorf("create user: %w", unique)) {
		t.Fatal("expected true for wrapped 23505")
	}
	if isUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Fatal("expected false for foreign key violation")
	}
	if isUniqueViolation(errors.New("plain error")) {
		t.Fatal("expected false for non-pq error")
	}
}

func TestNullHelpers(t *testing.T) {
	if got := nullStringToPtr(sql.NullString{}); got != nil {
		t.Fatalf("expected nil for invalid NullString, got %v", *got)
	}
	if got := nullStringToPtr(sql.NullString{String: "Anita", Valid: true}); got == nil || *got != "Anita" {
		t.Fatalf("unexpected pointer value: %v", got)
	}

	year := 2009
	if got := intPtrToNullInt64(&year); !got.Valid || got.Int64 != 2009 {
		t.Fatalf("unexpected NullInt64: %+v", got)
	}
	if got := nullInt64ToIntPtr(sql.NullInt64{Int64: 2009, Valid: true}); got == nil || *got != 2009 {
		t.Fatalf("unexpected int pointer: %v", got)
	}
	if got := nullInt64ToIntPtr(sql.NullInt64{}); got != nil {
		t.Fatalf("expected nil for invalid NullInt64, got %v", *got)
	}
}
