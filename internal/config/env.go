package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CALREPEAT_STORAGE_PATH.
const EnvPrefix = "CALREPEAT"

// NewViper returns a viper instance reading CALREPEAT_* variables, with
// nested keys joined by underscores.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Override copies every key set in v (by flag or environment) over c.
func (c *Config) Override(v *viper.Viper) {
	setString(v, "listen", &c.Listen)
	setString(v, "log_level", &c.LogLevel)
	setString(v, "log_format", &c.LogFormat)
	setString(v, "timezone", &c.Timezone)
	setString(v, "storage.driver", &c.Storage.Driver)
	setString(v, "storage.path", &c.Storage.Path)
	setString(v, "client.server_url", &c.Client.ServerURL)
	setString(v, "client.username", &c.Client.Username)
	setString(v, "client.password", &c.Client.Password)
	setString(v, "feed.title", &c.Feed.Title)
	setString(v, "feed.link", &c.Feed.Link)
	setString(v, "reminder.spec", &c.Reminder.Spec)
	setString(v, "limits.max_end_date", &c.Limits.MaxEndDate)

	if v.IsSet("rate_limit.rps") {
		c.RateLimit.RPS = v.GetFloat64("rate_limit.rps")
	}
	if v.IsSet("rate_limit.burst") {
		c.RateLimit.Burst = v.GetInt("rate_limit.burst")
	}
	if v.IsSet("reminder.enabled") {
		c.Reminder.Enabled = v.GetBool("reminder.enabled")
	}
	if v.IsSet("notify.telegram.token") || v.IsSet("notify.telegram.chat_id") {
		if c.Notify.Telegram == nil {
			c.Notify.Telegram = &TelegramConfig{}
		}
		setString(v, "notify.telegram.token", &c.Notify.Telegram.Token)
		if v.IsSet("notify.telegram.chat_id") {
			c.Notify.Telegram.ChatID = v.GetInt64("notify.telegram.chat_id")
		}
	}

	c.Normalize()
}

func setString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}
