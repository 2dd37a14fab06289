package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/creatorspace/memberkit/internal/flagx"
)

// JsonConfig is the DTO for the optional JSON config file. Durations are
// expressed in minutes so the file stays plain numbers.
type JsonConfig struct {
	Backend           string  `json:"backend"`
	DataDir           string  `json:"data_dir"`
	DatabaseDSN       string  `json:"database_dsn"`
	SessionSecret     string  `json:"session_secret"`
	SessionTTLMinutes int     `json:"session_ttl_minutes"`
	PaymentToken      string  `json:"payment_token"`
	PaymentAdmin      string  `json:"payment_admin"`
	PaymentAmount     float64 `json:"payment_amount"`
	Referrer          string  `json:"referrer"`
}

// parseJson overlays values from the file named by -c/-config, when present.
// Zero-valued fields in the file leave the defaults untouched. An unreadable
// or malformed file is a startup error, so it panics like a bad flag would.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Backend != "" {
		config.Backend = c.Backend
	}
	if c.DataDir != "" {
		config.DataDir = c.DataDir
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SessionSecret != "" {
		config.SessionSecret = c.SessionSecret
	}
	if c.SessionTTLMinutes > 0 {
		config.SessionTTL = time.Duration(c.SessionTTLMinutes) * time.Minute
	}
	if c.PaymentToken != "" {
		config.PaymentToken = c.PaymentToken
	}
	if c.PaymentAdmin != "" {
		config.PaymentAdmin = c.PaymentAdmin
	}
	if c.PaymentAmount > 0 {
		config.PaymentAmount = c.PaymentAmount
	}
	if c.Referrer != "" {
		config.Referrer = c.Referrer
	}
}
