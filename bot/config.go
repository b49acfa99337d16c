package bot

import "time"

// Configuration field names as they appear in the configuration file.
const (
	CfgTgToken              = "TgToken"
	CfgDbConnStr            = "DBConnStr"
	CfgDbRetryAttempts      = "DBRetryAttempts"
	CfgDbRetryDelay         = "DBRetryDelay"
	CfgDbTimeout            = "DBTimeout"
	CfgLLMBaseURL           = "LLMBaseURL"
	CfgLLMAPIKey            = "LLMAPIKey"
	CfgLLMModel             = "LLMModel"
	CfgLLMTimeout           = "LLMTimeout"
	CfgSendTimeout          = "SendTimeout"
	CfgTimeZone             = "TimeZone"
	CfgReminderInterval     = "ReminderInterval"
	CfgReminderSendAttempts = "ReminderSendAttempts"
	CfgMetricsAddr          = "MetricsAddr"
)

// ConfigFields lists every configuration field.
var ConfigFields = []string{
	CfgTgToken, CfgDbConnStr, CfgDbRetryAttempts, CfgDbRetryDelay, CfgDbTimeout,
	CfgLLMBaseURL, CfgLLMAPIKey, CfgLLMModel, CfgLLMTimeout,
	CfgSendTimeout, CfgTimeZone, CfgReminderInterval, CfgReminderSendAttempts, CfgMetricsAddr,
}

const (
	defaultDBRetryAttempts      = 5
	defaultDBRetryDelay         = 2 * time.Second
	defaultDBTimeout            = 5 * time.Second
	defaultLLMTimeout           = 30 * time.Second
	defaultSendTimeout          = 15 * time.Second
	defaultTimeZone             = "Asia/Jakarta"
	defaultReminderInterval     = 20 * time.Second
	defaultReminderSendAttempts = 3
)

// Config keeps bot configuration
type Config struct {
	TgToken         string
	DBConnStr       string
	DBRetryAttempts int
	DBRetryDelay    time.Duration
	DBTimeout       time.Duration

	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
	LLMTimeout time.Duration

	SendTimeout time.Duration
	TimeZone    string

	ReminderInterval     time.Duration
	ReminderSendAttempts int

	MetricsAddr string
}

// WithDefaults fills zero values with defaults and returns the config.
func (c *Config) WithDefaults() *Config {
	if c.DBRetryAttempts <= 0 {
		c.DBRetryAttempts = defaultDBRetryAttempts
	}
	if c.DBRetryDelay <= 0 {
		c.DBRetryDelay = defaultDBRetryDelay
	}
	if c.DBTimeout <= 0 {
		c.DBTimeout = defaultDBTimeout
	}
	if c.LLMTimeout <= 0 {
		c.LLMTimeout = defaultLLMTimeout
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = defaultSendTimeout
	}
	if c.TimeZone == "" {
		c.TimeZone = defaultTimeZone
	}
	if c.ReminderInterval <= 0 {
		c.ReminderInterval = defaultReminderInterval
	}
	if c.ReminderSendAttempts <= 0 {
		c.ReminderSendAttempts = defaultReminderSendAttempts
	}
	return c
}
