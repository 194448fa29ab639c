package ui

import "errors"

// Client-side form checks, mirrored from the backend's rules so obviously
// bad input never leaves the console.

var (
	errUsernameShort = errors.New("username must be at least 3 characters")
	errUsernameChars = errors.New("username can only contain letters, numbers, underscores, and hyphens")
	errPasswordShort = errors.New("password must be at least 8 characters")
	errPasswordMatch = errors.New("passwords do not match")
	errUserIDDigits  = errors.New("user id must be numeric")
)

func validateUsername(username string) error {
	if len(username) < 3 {
		return errUsernameShort
	}
	for _, c := range username {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			return errUsernameChars
		}
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return errPasswordShort
	}
	return nil
}

func validatePasswordPair(password, confirm string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	if password != confirm {
		return errPasswordMatch
	}
	return nil
}

func validateUserID(id string) error {
	if id == "" {
		return errUserIDDigits
	}
	for _, c := range id {
		if c < '0' || c > '9' {
			return errUserIDDigits
		}
	}
	return nil
}
