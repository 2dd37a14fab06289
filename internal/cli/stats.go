package cli

import (
	"context"
	"fmt"

	"github.com/creatorspace/memberkit/internal/common"
)

// Stats shows the referral counters and the user's own invite link.
func (a *App) Stats(ctx context.Context) error {
	user, err := a.sessions.CurrentUser(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}
	if user == nil {
		a.current = nil
		return a.fail(ctx, common.ErrNotAuthenticated)
	}

	c := a.ledger.Counters(ctx, user.Username)
	fmt.Fprintf(a.out, "Referred members: %d\n", c.Members)
	fmt.Fprintf(a.out, "Earnings:         %.2f\n", c.Earnings)
	fmt.Fprintf(a.out, "Invite link:      https://creatorspace.example/?ref=%s\n", user.Username)
	return nil
}
