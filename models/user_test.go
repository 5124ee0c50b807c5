package models

import (
	"testing"

	"github.com/nguyentoan1998/stockflow_backend/utils"
)

func TestVerifyPassword_CorrectPassword(t *testing.T) {
	hashed, err := utils.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := verifyPassword(string(hashed), "s3cret"); err != nil {
		t.Fatalf("expected correct password to pass, got %v", err)
	}
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	hashed, err := utils.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := verifyPassword(string(hashed), "wrong"); err == nil {
		t.Fatal("expected wrong password to be rejected")
	}
}

func TestVerifyPassword_CorruptStoredHash(t *testing.T) {
	// a stored value that is not a bcrypt hash at all must fail the login,
	// not slip past as a non-mismatch error
	if err := verifyPassword("not-a-bcrypt-hash", "s3cret"); err == nil {
		t.Fatal("expected corrupt hash to be rejected")
	}
	if err := verifyPassword("", "s3cret"); err == nil {
		t.Fatal("expected empty hash to be rejected")
	}
}
