package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/creatorspace/memberkit/internal/auth"
	"github.com/creatorspace/memberkit/internal/common"
	"github.com/creatorspace/memberkit/internal/config"
	"github.com/creatorspace/memberkit/internal/kvstore"
	"github.com/creatorspace/memberkit/internal/logging"
	"github.com/creatorspace/memberkit/internal/models"
	"github.com/creatorspace/memberkit/internal/payment"
	"github.com/creatorspace/memberkit/internal/referral"
	"github.com/creatorspace/memberkit/internal/session"
	"github.com/creatorspace/memberkit/internal/users"
)

type App struct {
	config    *config.Config
	store     kvstore.Store
	users     users.Repository
	sessions  *session.Manager
	ledger    *referral.Ledger
	flow      *auth.Flow
	hook      *payment.Hook
	processor payment.Processor

	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	current *models.User
}

// NewApp wires the selected persistence variant into the shared core. The
// variants are exchanged wholesale: the flow, session and ledger code is
// identical across all three.
func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()
	log := logging.NewTextLogger(os.Stderr)

	var store kvstore.Store
	var repo users.Repository
	var sessionOpts []session.Option

	switch cfg.Backend {
	case config.BackendMemory:
		store = kvstore.NewMemory()
		repo = users.NewKVRepository(store, log)

	case config.BackendLevelDB:
		store = kvstore.OpenLevelDB(cfg.DataDir, log)
		repo = users.NewKVRepository(store, log)

	case config.BackendPostgres:
		// user records live in the managed backend; the session pointer and
		// referral counters stay in the local store, now holding an
		// expiring token instead of a bare username
		db, err := users.OpenPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		store = kvstore.OpenLevelDB(cfg.DataDir, log)
		repo = users.NewPostgresRepository(db)
		sessionOpts = append(sessionOpts,
			session.WithTokenIssuer(session.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL)))

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	sessions := session.NewManager(store, repo, log, sessionOpts...)
	ledger := referral.NewLedger(store, repo, log)

	reader := bufio.NewReader(os.Stdin)
	out := os.Stdout

	return &App{
		config:    cfg,
		store:     store,
		users:     repo,
		sessions:  sessions,
		ledger:    ledger,
		flow:      auth.NewFlow(repo, sessions, ledger, log),
		hook:      payment.NewHook(repo, sessions, log),
		processor: payment.NewWalletProcessor(cfg.PaymentToken, cfg.PaymentAdmin, cfg.PaymentAmount, reader, out),
		log:       log,
		reader:    reader,
		out:       out,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.current != nil
}

func (a *App) status() string {
	if a.current != nil {
		return a.current.Username
	}
	return "guest"
}

// Run resumes any persisted session, records the invite-link attribution,
// and hands control to the REPL.
func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.store.Close() }()

	fmt.Fprintln(a.out, "memberkit (type 'help' for commands)")
	fmt.Fprintln(a.out, "checking session...")

	status, user := a.sessions.Check(ctx)
	if status == session.StatusAuthenticated {
		a.current = user
		fmt.Fprintf(a.out, "Welcome back, %s!\n", user.Username)
	} else {
		fmt.Fprintln(a.out, "Not logged in.")
	}

	a.seedReferral(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

// seedReferral records the ?ref= attribution carried on the invite link.
// Attribution only; the credit itself happens at signup.
func (a *App) seedReferral(ctx context.Context) {
	if a.config.Referrer == "" {
		return
	}
	if err := a.ledger.SetPending(ctx, a.config.Referrer); err != nil {
		a.log.Warn(ctx, "ignoring invite referrer", "referrer", a.config.Referrer, "error", err)
		return
	}
	fmt.Fprintf(a.out, "Invited by %s\n", a.config.Referrer)
}

// fail reports a command error to the user. Validation errors are expected
// and shown as-is; anything else is also logged.
func (a *App) fail(ctx context.Context, err error) error {
	if !isUserError(err) {
		a.log.Error(ctx, "command failed", "error", err)
	}
	fmt.Fprintf(a.out, "Error: %s\n", err.Error())
	return err
}

func isUserError(err error) bool {
	for _, known := range []error{
		common.ErrUsernameTaken, common.ErrEmailTaken, common.ErrUsernameFormat,
		common.ErrEmailFormat, common.ErrPasswordFormat, common.ErrPasswordConfirm,
		common.ErrTermsNotAgreed, common.ErrInvalidCredentials, common.ErrUnknownReferrer,
		payment.ErrCancelled,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
