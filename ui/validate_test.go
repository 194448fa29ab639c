package ui

import (
	"errors"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		username string
		want     error
	}{
		{"alice", nil},
		{"a_b-3", nil},
		{"ab", errUsernameShort},
		{"", errUsernameShort},
		{"bad name", errUsernameChars},
		{"émile", errUsernameChars},
	}
	for _, tt := range tests {
		if got := validateUsername(tt.username); !errors.Is(got, tt.want) {
			t.Errorf("validateUsername(%q) = %v, want %v", tt.username, got, tt.want)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := validatePassword("1234567"); !errors.Is(err, errPasswordShort) {
		t.Errorf("7 chars = %v, want %v", err, errPasswordShort)
	}
	if err := validatePassword("12345678"); err != nil {
		t.Errorf("8 chars = %v", err)
	}
	if got := errPasswordShort.Error(); got != "password must be at least 8 characters" {
		t.Errorf("message = %q", got)
	}
}

func TestValidatePasswordPair(t *testing.T) {
	if err := validatePasswordPair("longenough", "different"); !errors.Is(err, errPasswordMatch) {
		t.Errorf("mismatch = %v", err)
	}
	if err := validatePasswordPair("short", "short"); !errors.Is(err, errPasswordShort) {
		t.Errorf("short pair = %v", err)
	}
	if err := validatePasswordPair("longenough", "longenough"); err != nil {
		t.Errorf("valid pair = %v", err)
	}
}

func TestValidateUserID(t *testing.T) {
	for _, id := range []string{"1", "42", "007"} {
		if err := validateUserID(id); err != nil {
			t.Errorf("validateUserID(%q) = %v", id, err)
		}
	}
	for _, id := range []string{"", "abc", "1a", "-1", "1.5"} {
		if !errors.Is(validateUserID(id), errUserIDDigits) {
			t.Errorf("validateUserID(%q) accepted", id)
		}
	}
}
