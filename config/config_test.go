package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIdentity = "Vote111111111111111111111111111111111111111"
	testVote     = "Stake11111111111111111111111111111111111111"
)

func required() map[string]string {
	return map[string]string{
		"TELEGRAM_TOKEN":   "123:abc",
		"RPC_URL":          "http://localhost:8899",
		"IDENTITY_ADDRESS": testIdentity,
		"VOTE_ADDRESS":     testVote,
	}
}

func TestDefaults(t *testing.T) {

	cfg, err := parse(env.Options{Environment: required()})
	require.NoError(t, err)

	assert.Equal(t, "Operators", cfg.ValidatorName)
	assert.Equal(t, "https://api.stakewiz.com", cfg.StakewizAPIURL)
	assert.Equal(t, 60*time.Second, cfg.AutoDeleteAfter)
	assert.Equal(t, 400*time.Millisecond, cfg.SlotDuration)
	assert.False(t, cfg.BalancesButton)
	assert.True(t, cfg.DustFilter)
	assert.Zero(t, cfg.BlockFetchConcurrency)
	assert.Zero(t, cfg.HTTPTimeout)
	assert.Empty(t, cfg.NotifyChatIDs)
	assert.Equal(t, "127.0.0.1:8082", cfg.StatusAddr)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestOverrides(t *testing.T) {

	environ := required()
	environ["NOTIFY_CHAT_IDS"] = "1,-100200"
	environ["BALANCES_BUTTON"] = "true"
	environ["DUST_FILTER"] = "false"
	environ["SLOT_DURATION"] = "450ms"
	environ["BLOCK_FETCH_CONCURRENCY"] = "8"

	cfg, err := parse(env.Options{Environment: environ})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, -100200}, cfg.NotifyChatIDs)
	assert.True(t, cfg.BalancesButton)
	assert.False(t, cfg.DustFilter)
	assert.Equal(t, 450*time.Millisecond, cfg.SlotDuration)
	assert.Equal(t, 8, cfg.BlockFetchConcurrency)
}

func TestRequiredVariables(t *testing.T) {

	for name := range required() {
		environ := required()
		delete(environ, name)

		_, err := parse(env.Options{Environment: environ})
		assert.Error(t, err, name)
	}
}

func TestValidate(t *testing.T) {

	cases := map[string]func(*Config){
		"bad identity":     func(c *Config) { c.IdentityAddress = "not-base58!" },
		"bad vote":         func(c *Config) { c.VoteAddress = "abc" },
		"zero slot":        func(c *Config) { c.SlotDuration = 0 },
		"zero lifetime":    func(c *Config) { c.AutoDeleteAfter = 0 },
		"negative workers": func(c *Config) { c.BlockFetchConcurrency = -1 },
		"negative timeout": func(c *Config) { c.HTTPTimeout = -time.Second },
		"bad level":        func(c *Config) { c.LogLevel = "loud" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg, err := parse(env.Options{Environment: required()})
			require.NoError(t, err)

			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadExplicitEnvFileMustExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoadFromEnvFile(t *testing.T) {

	for k := range required() {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	path := filepath.Join(t.TempDir(), "bot.env")
	content := "TELEGRAM_TOKEN=123:abc\nRPC_URL=http://localhost:8899\n" +
		"IDENTITY_ADDRESS=" + testIdentity + "\nVOTE_ADDRESS=" + testVote + "\nVALIDATOR_NAME=Bacon\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Cleanup(func() {
		for _, k := range []string{"TELEGRAM_TOKEN", "RPC_URL", "IDENTITY_ADDRESS", "VOTE_ADDRESS", "VALIDATOR_NAME"} {
			_ = os.Unsetenv(k)
		}
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Bacon", cfg.ValidatorName)
	assert.Equal(t, testVote, cfg.VoteAddress)
}
