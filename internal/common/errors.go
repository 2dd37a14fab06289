// Package common defines shared sentinel errors used across memberkit.
// Callers should use errors.Is to match these values; user-visible wording
// lives here so every surface reports validation failures identically.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Registration validation errors. Duplicate checks are deliberately
	// specific so the user knows which field to change.
	ErrUsernameTaken   = errors.New("username already exists")
	ErrEmailTaken      = errors.New("email already in use")
	ErrUsernameFormat  = errors.New("username must be 3-30 characters")
	ErrEmailFormat     = errors.New("invalid email address")
	ErrPasswordFormat  = errors.New("password must be at least 8 characters")
	ErrPasswordConfirm = errors.New("passwords do not match")
	ErrTermsNotAgreed  = errors.New("you must confirm your age and accept the terms")

	// Login failures collapse into a single generic message so the response
	// does not reveal whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// Session errors.
	ErrNotAuthenticated = errors.New("not authenticated")

	// Referral errors.
	ErrUnknownReferrer = errors.New("referrer does not exist")

	// Generic internal failure surfaced when storage misbehaves in a way the
	// user cannot fix by retyping the form.
	ErrInternal = errors.New("internal error")
)
