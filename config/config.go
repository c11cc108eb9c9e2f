package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"solbot/solclient"
)

const DefaultEnvFile = ".env"

// Config holds all configuration loaded from environment variables
type Config struct {
	TelegramToken   string `env:"TELEGRAM_TOKEN,required"`
	RPCURL          string `env:"RPC_URL,required"`
	IdentityAddress string `env:"IDENTITY_ADDRESS,required"`
	VoteAddress     string `env:"VOTE_ADDRESS,required"`

	ValidatorName  string `env:"VALIDATOR_NAME" envDefault:"Operators"`
	StakewizAPIURL string `env:"STAKEWIZ_API_URL" envDefault:"https://api.stakewiz.com"`

	AutoDeleteAfter time.Duration `env:"AUTO_DELETE_AFTER" envDefault:"60s"`
	SlotDuration    time.Duration `env:"SLOT_DURATION" envDefault:"400ms"`

	BalancesButton        bool `env:"BALANCES_BUTTON" envDefault:"false"`
	DustFilter            bool `env:"DUST_FILTER" envDefault:"true"`
	BlockFetchConcurrency int  `env:"BLOCK_FETCH_CONCURRENCY" envDefault:"0"`

	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"0s"`

	NotifyChatIDs []int64 `env:"NOTIFY_CHAT_IDS" envSeparator:","`
	StatusAddr    string  `env:"STATUS_ADDR" envDefault:"127.0.0.1:8082"`
	LogLevel      string  `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads envFile into the process environment, without overriding
// variables already set, then parses and validates the configuration. The
// default file may be absent; an explicitly named one may not.
func Load(envFile string) (Config, error) {

	if envFile == "" {
		envFile = DefaultEnvFile
	}

	if err := godotenv.Load(envFile); err != nil {
		if envFile != DefaultEnvFile || !os.IsNotExist(errors.Cause(err)) {
			return Config{}, errors.Wrapf(err, "Unable to load %s", envFile)
		}
		log.WithField("File", envFile).Debug("No env file; using process environment")
	}

	return parse(env.Options{})
}

func parse(opts env.Options) (Config, error) {

	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.Wrap(err, "Unable to parse configuration")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {

	if _, err := solclient.ParsePublicKey(c.IdentityAddress); err != nil {
		return errors.Wrap(err, "Invalid IDENTITY_ADDRESS")
	}

	if _, err := solclient.ParsePublicKey(c.VoteAddress); err != nil {
		return errors.Wrap(err, "Invalid VOTE_ADDRESS")
	}

	if c.SlotDuration <= 0 {
		return errors.New("SLOT_DURATION must be positive")
	}

	if c.AutoDeleteAfter <= 0 {
		return errors.New("AUTO_DELETE_AFTER must be positive")
	}

	if c.BlockFetchConcurrency < 0 {
		return errors.New("BLOCK_FETCH_CONCURRENCY cannot be negative")
	}

	if c.HTTPTimeout < 0 {
		return errors.New("HTTP_TIMEOUT cannot be negative")
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "Invalid LOG_LEVEL")
	}

	return nil
}
