package auth

import (
	"net/mail"
	"strings"

	"github.com/creatorspace/memberkit/internal/common"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 30
	minPasswordLen = 8
)

func normalizeUsername(s string) string {
	return strings.TrimSpace(s)
}

func (in *RegisterInput) normalize() {
	in.Username = normalizeUsername(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

// validate performs the structural checks, rejecting bad input before any
// store access.
func (in *RegisterInput) validate() error {
	if n := len(in.Username); n < minUsernameLen || n > maxUsernameLen {
		return common.ErrUsernameFormat
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return common.ErrEmailFormat
	}
	if len(in.Password) < minPasswordLen {
		return common.ErrPasswordFormat
	}
	if in.Password != in.ConfirmPassword {
		return common.ErrPasswordConfirm
	}
	if !in.AgeConfirmed || !in.TermsAccepted {
		return common.ErrTermsNotAgreed
	}
	return nil
}
