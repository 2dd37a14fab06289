package cli

import (
	"context"
	"fmt"

	"github.com/creatorspace/memberkit/internal/auth"
)

// Register walks the sign-up form and runs the registration flow. On success
// the new user is logged in immediately.
func (a *App) Register(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Choose a username", a.out)
	if err != nil {
		return a.fail(ctx, err)
	}

	email, err := GetSimpleText(a.reader, "Email address", a.out)
	if err != nil {
		return a.fail(ctx, err)
	}

	password, err := GetPassword("Password", a.out)
	if err != nil {
		return a.fail(ctx, err)
	}

	confirm, err := GetPassword("Confirm password", a.out)
	if err != nil {
		return a.fail(ctx, err)
	}

	age, err := GetYesNo(a.reader, "Are you 18 or older?", a.out)
	if err != nil {
		return a.fail(ctx, err)
	}

	terms, err := GetYesNo(a.reader, "Do you accept the terms of use?", a.out)
	if err != nil {
		return a.fail(ctx, err)
	}

	user, err := a.flow.Register(ctx, auth.RegisterInput{
		Username:        username,
		Email:           email,
		Password:        password,
		ConfirmPassword: confirm,
		AgeConfirmed:    age,
		TermsAccepted:   terms,
	})
	if err != nil {
		return a.fail(ctx, err)
	}

	a.current = user
	fmt.Fprintf(a.out, "Welcome, %s! Your account is ready.\n", user.Username)
	return nil
}
