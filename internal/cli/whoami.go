package cli

import (
	"context"
	"fmt"

	"github.com/creatorspace/memberkit/internal/common"
)

// Whoami shows the dashboard profile, always re-reading the stored record so
// a premium upgrade or a healed session is reflected immediately.
func (a *App) Whoami(ctx context.Context) error {
	user, err := a.sessions.CurrentUser(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}
	if user == nil {
		a.current = nil
		return a.fail(ctx, common.ErrNotAuthenticated)
	}
	a.current = user

	plan := "free"
	if user.Premium {
		plan = "premium"
	}

	fmt.Fprintf(a.out, "Username:     %s\n", user.Username)
	fmt.Fprintf(a.out, "Email:        %s\n", user.Email)
	fmt.Fprintf(a.out, "Plan:         %s\n", plan)
	fmt.Fprintf(a.out, "Member since: %s\n", user.CreatedAt.Format("2006-01-02"))
	fmt.Fprintf(a.out, "Last login:   %s\n", user.LastLogin.Format("2006-01-02 15:04"))
	return nil
}
