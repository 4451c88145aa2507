package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Twilio      Twilio   `mapstructure:"twilio"`
	LogLevel    string   `mapstructure:"log_level"`
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"` // local server only
}

// Twilio holds the credentials and sender number used for outbound messages.
type Twilio struct {
	AccountSID  string `mapstructure:"account_sid"`
	AuthToken   string `mapstructure:"auth_token"`
	PhoneNumber string `mapstructure:"phone_number"`
}

var envBindings = map[string]string{
	"twilio.account_sid":  "TWILIO_ACCOUNT_SID",
	"twilio.auth_token":   "TWILIO_AUTH_TOKEN",
	"twilio.phone_number": "TWILIO_PHONE_NUMBER",
	"log_level":           "SMSBRIDGE_LOG_LEVEL",
	"addr":                "SMSBRIDGE_ADDR",
	"cors_origins":        "SMSBRIDGE_CORS_ORIGINS",
}

// Load reads the configuration from the environment. Twilio credentials have
// no defaults; an unconfigured account is reported per send, not here.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("log_level", "info")
	v.SetDefault("addr", ":8088")
	v.SetDefault("cors_origins", []string{"http://localhost:3000"})

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, errors.Wrapf(err, "bind %s", env)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "unmarshal config")
	}
	return cfg, nil
}

// Configured reports whether every credential needed to send is present.
func (t Twilio) Configured() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.PhoneNumber != ""
}
