// Package config holds the central configuration: a TOML file for the structural settings,
// overridden by environment variables for everything deployment-specific (credentials included).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v10"
)

var (
	LFJSON LogFormat = "json"
	LFText LogFormat = "text"
)

// NewConfig builds the configuration in three layers: compiled-in defaults, the TOML file and
// environment variables, each overriding the previous. A missing file is not an error, the
// defaults plus environment carry a containerized deployment on their own.
func NewConfig(fileName string) (Config, error) {
	c := defaultConfig()

	if _, err := toml.DecodeFile(fileName, &c); err != nil && !os.IsNotExist(err) {
		return c, fmt.Errorf("unable to load %q, reason: %w", fileName, err)
	}

	if err := env.Parse(&c); err != nil {
		return c, fmt.Errorf("unable to apply environment overrides, reason: %w", err)
	}

	return c, nil
}

func defaultConfig() Config {
	c := Config{
		References: map[string][]string{
			"domains": {
				"gmail.com", "googlemail.com", "yahoo.com", "hotmail.com", "outlook.com",
				"live.com", "icloud.com", "protonmail.com", "proton.me", "aol.com", "gmx.com",
			},
		},
	}

	c.Client.InputLengthMax = 1 << 16

	c.Server.ListenOn = ":8000"
	c.Server.Log.Level = "info"
	c.Server.Log.Format = LFText

	c.Validator.Strict = true
	c.Validator.LookupTimeout = Duration{duration: 5 * time.Second}

	c.SMTP.Host = "smtp.gmail.com"
	c.SMTP.Port = 587
	c.SMTP.ConnectTimeout = Duration{duration: 10 * time.Second}

	return c
}

// Config holds central config parameters
type Config struct {
	// References lists known-good domains, fed to the suggestion finder
	References map[string][]string `toml:"references"`
	Client     struct {
		InputLengthMax uint64 `toml:"inputLengthMax"`
	} `toml:"client"`
	Server struct {
		ListenOn        string `toml:"listenOn" env:"LISTEN_ON"`
		ConnectionLimit uint   `toml:"connectionLimit"`
		CORS            struct {
			AllowedOrigins []string `toml:"allowedOrigins"`
			AllowedHeaders []string `toml:"allowedHeaders"`
		} `toml:"CORS"`
		Headers Headers `toml:"headers"`
		Log     struct {
			Level  string    `toml:"level" env:"LOG_LEVEL"`
			Format LogFormat `toml:"format"`
		} `toml:"log"`
		Profiler struct {
			Enable bool   `toml:"enable"`
			Prefix string `toml:"prefix"`
		} `toml:"profiler"`
	} `toml:"server"`
	Validator struct {
		Resolver                    string   `toml:"resolver" env:"DNS_RESOLVER"`
		Strict                      bool     `toml:"strict" env:"STRICT_EMAIL_VALIDATION"`
		RequireMinimumMessageLength bool     `toml:"requireMinimumMessageLength" env:"REQUIRE_MINIMUM_MESSAGE_LENGTH"`
		LookupTimeout               Duration `toml:"lookupTimeout"`
	} `toml:"validator"`
	SMTP struct {
		Host           string   `toml:"host" env:"SMTP_SERVER"`
		Port           uint16   `toml:"port" env:"SMTP_PORT"`
		Sender         string   `toml:"sender" env:"SENDER_EMAIL"`
		Password       string   `toml:"password" env:"SENDER_PASSWORD"`
		Recipient      string   `toml:"recipient" env:"RECIPIENT_EMAIL"`
		ConnectTimeout Duration `toml:"connectTimeout"`
	} `toml:"smtp"`
}

type Headers map[string]string

func (h Headers) String() string {
	var v string
	for header, value := range h {
		v += `"` + header + `:` + value + `",`
	}

	if len(v) > 0 {
		v = v[0 : len(v)-1]
	}

	return v
}

func (h *Headers) Set(v string) error {
	s := strings.SplitN(v, `:`, 2)
	if len(s) != 2 {
		return fmt.Errorf("invalid Header argument %q, expecting <header name>:<header value>", v)
	}

	if *h == nil {
		*h = make(map[string]string, 1)
	}

	(*h)[s[0]] = s[1]

	return nil
}

type Duration struct {
	duration time.Duration
}

func (d Duration) String() string {
	return d.duration.String()
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) AsDuration() time.Duration {
	return d.duration
}

type LogFormat string

func (lf LogFormat) String() string {
	return string(lf)
}

func (lf *LogFormat) UnmarshalText(value []byte) error {
	validTypes := []string{string(LFJSON), string(LFText)}
	v := string(value)
	for _, t := range validTypes {
		if t == v {
			*lf = LogFormat(v)
			return nil
		}
	}

	expected := strings.Join(validTypes, ", ")
	return fmt.Errorf("unsupported value %q for log format. Expected one of: %q", value, expected)
}
