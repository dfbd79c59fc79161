package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error must not be a violation")
	}
	err := errors.New(`duplicate key value violates unique constraint "pcs_name_key"`)
	if !IsUniqueViolation(err, "") {
		t.Fatal("expected generic postgres match")
	}
	if !IsUniqueViolation(err, "pcs_name_key") {
		t.Fatal("expected constraint name match")
	}
	if IsUniqueViolation(err, "users_email_key") {
		t.Fatal("unexpected match for different constraint")
	}
	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: pcs.name"), "") {
		t.Fatal("expected sqlite match")
	}
}
