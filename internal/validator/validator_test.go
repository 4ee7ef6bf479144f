package validator

import "testing"

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("alice@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, email := range []string{"", "alice", "alice@", "@example.com", "a b@example.com"} {
		if err := ValidateEmail(email); err != ErrInvalidEmail {
			t.Fatalf("%q: expected ErrInvalidEmail, got %v", email, err)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	if err := ValidateUsername("pandit_rama9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, username := range []string{"", "ab", "has space", "too-dashy"} {
		if err := ValidateUsername(username); err != ErrInvalidUsername {
			t.Fatalf("%q: expected ErrInvalidUsername, got %v", username, err)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("pass1234"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidatePassword("short"); err != ErrInvalidPassword {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
}

func TestValidateSignupRole(t *testing.T) {
	for _, role := range []string{"user", "astrologer"} {
		if err := ValidateSignupRole(role); err != nil {
			t.Fatalf("%q: unexpected error: %v", role, err)
		}
	}
	for _, role := range []string{"", "admin", "superuser"} {
		if err := ValidateSignupRole(role); err != ErrInvalidRole {
			t.Fatalf("%q: expected ErrInvalidRole, got %v", role, err)
		}
	}
}
