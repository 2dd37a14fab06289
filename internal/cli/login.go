package cli

import (
	"context"
	"fmt"
)

func (a *App) Login(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return a.fail(ctx, err)
	}

	password, err := GetPassword("Password", a.out)
	if err != nil {
		return a.fail(ctx, err)
	}

	user, err := a.flow.Login(ctx, username, password)
	if err != nil {
		return a.fail(ctx, err)
	}

	a.current = user
	fmt.Fprintf(a.out, "Welcome back, %s!\n", user.Username)
	return nil
}
