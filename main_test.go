package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"botfarm/bot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `{
	"XeylaBot": {
		"TgToken": "123:abc",
		"DBConnStr": "postgresql://localhost:5432/xeyla",
		"LLMAPIKey": "key",
		"ReminderInterval": "30s",
		"ReminderSendAttempts": 5
	}
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(name, []byte(content), 0o600))
	return name
}

func TestReadBotConfig(t *testing.T) {
	v, err := readConfig(writeConfig(t, testConfig))
	require.NoError(t, err)

	sub := botConfig(v, "XeylaBot")
	rec := bot.Record{Name: "XeylaBot", RequiredConfigFields: []string{bot.CfgTgToken, bot.CfgDbConnStr, bot.CfgLLMAPIKey}}
	require.NoError(t, validateConfig(rec, sub))

	var cfg bot.Config
	require.NoError(t, sub.Unmarshal(&cfg))
	cfg.WithDefaults()

	assert.Equal(t, "123:abc", cfg.TgToken)
	assert.Equal(t, 30*time.Second, cfg.ReminderInterval)
	assert.Equal(t, 5, cfg.ReminderSendAttempts)
	assert.Equal(t, "Asia/Jakarta", cfg.TimeZone)
}

func TestEnvOverridesConfig(t *testing.T) {
	t.Setenv("BOTFARM_XEYLABOT_TGTOKEN", "456:def")
	t.Setenv("BOTFARM_XEYLABOT_TIMEZONE", "Asia/Makassar")

	v, err := readConfig(writeConfig(t, testConfig))
	require.NoError(t, err)

	var cfg bot.Config
	require.NoError(t, botConfig(v, "XeylaBot").Unmarshal(&cfg))

	assert.Equal(t, "456:def", cfg.TgToken)
	assert.Equal(t, "Asia/Makassar", cfg.TimeZone)
}

func TestValidateConfigMissingFields(t *testing.T) {
	v, err := readConfig(writeConfig(t, `{"XeylaBot": {"TgToken": "123:abc", "LLMAPIKey": ""}}`))
	require.NoError(t, err)

	rec := bot.Record{Name: "XeylaBot", RequiredConfigFields: []string{bot.CfgTgToken, bot.CfgDbConnStr, bot.CfgLLMAPIKey}}
	err = validateConfig(rec, botConfig(v, "XeylaBot"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DBConnStr, LLMAPIKey")
}

func TestMissingBotSection(t *testing.T) {
	v, err := readConfig(writeConfig(t, `{}`))
	require.NoError(t, err)

	rec := bot.Record{Name: "XeylaBot", RequiredConfigFields: []string{bot.CfgTgToken}}
	assert.Error(t, validateConfig(rec, botConfig(v, "XeylaBot")))
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := readConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
