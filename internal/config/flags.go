package config

import (
	"flag"
	"os"
	"time"

	"github.com/creatorspace/memberkit/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-b string    backend: memory | leveldb | postgres
//	-p string    data directory for the local store
//	-d string    PostgreSQL DSN (remote-backend variant)
//	-s string    session token secret
//	-t int       session token lifetime, minutes
//	-ref string  referral attribution from the invite link
//
// Arguments are first filtered through flagx.FilterArgs so this flag set
// never collides with -c/-config handled by the JSON loader.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-p", "-d", "-s", "-t", "-ref"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Backend, "b", config.Backend, "storage backend")
	fs.StringVar(&config.DataDir, "p", config.DataDir, "data directory")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session secret key")
	fs.StringVar(&config.Referrer, "ref", config.Referrer, "referrer username from invite link")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Minutes()), "session token lifetime (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
}
