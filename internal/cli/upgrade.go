package cli

import (
	"context"
	"fmt"

	"github.com/creatorspace/memberkit/internal/common"
)

// Upgrade runs the external payment collaborator and, only once it reports
// success, flips the premium flag through the confirmation hook.
func (a *App) Upgrade(ctx context.Context) error {
	user, err := a.sessions.CurrentUser(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}
	if user == nil {
		a.current = nil
		return a.fail(ctx, common.ErrNotAuthenticated)
	}
	if user.Premium {
		fmt.Fprintln(a.out, "You already have premium access.")
		return nil
	}

	if err := a.processor.Pay(ctx); err != nil {
		return a.fail(ctx, err)
	}
	if err := a.hook.OnPaymentSuccess(ctx); err != nil {
		return a.fail(ctx, err)
	}

	if user, err = a.sessions.CurrentUser(ctx); err == nil && user != nil {
		a.current = user
	}
	fmt.Fprintln(a.out, "Premium unlocked. Enjoy!")
	return nil
}
