// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// =============================================================================
// CREDENTIAL VALIDATION
// =============================================================================
// Form-level checks performed before any network call, so obviously bad
// input never reaches the backend.

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrEmailInvalid     = errors.New("enter a valid email address")
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordWeak     = errors.New("password needs at least 6 characters with upper and lower case letters")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail checks the address is present and plausibly formed.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	return nil
}

// ValidatePassword enforces the signup policy: minimum six characters,
// at least one uppercase and one lowercase letter, no whitespace.
func ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	var hasUpper, hasLower bool
	for _, r := range password {
		switch {
		case unicode.IsSpace(r):
			return ErrPasswordWeak
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
	}
	if len([]rune(password)) < 6 || !hasUpper || !hasLower {
		return ErrPasswordWeak
	}
	return nil
}

// ValidateSignup runs the full registration form check.
func ValidateSignup(email, password, confirm string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}
