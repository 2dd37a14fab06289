package cli

import (
	"context"
	"fmt"
)

func (a *App) Logout(ctx context.Context) error {
	a.sessions.Logout(ctx)
	a.current = nil
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}
