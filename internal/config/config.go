// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvConfigJSON holds a JSON document merged over the TOML config.
	EnvConfigJSON = "VIGIL_CONFIG_JSON"

	// EnvPrefix is the prefix of single value overrides, e.g. VIGIL_AUTH_SECRETKEY.
	EnvPrefix = "VIGIL"

	// MinSecretKeyLen is the minimal length of the token signing key.
	MinSecretKeyLen = 32

	defaultShutDownTime       = 5
	defaultAccessTokenMinutes = 30
	defaultRefreshTokenDays   = 7
	defaultBodyLimit          = 512 << 20
	defaultVideoPath          = "uploads/videos"
	defaultFramePath          = "uploads/frames"

	redacted = "********"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	applySecretsFromEnv(&c)

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	return c, nil
}

// applySecretsFromEnv lets secrets live outside the config file.
func applySecretsFromEnv(c *Config) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if s := v.GetString("auth.secretkey"); s != "" {
		c.Auth.SecretKey = s
	}

	if s := v.GetString("auth.adminpassword"); s != "" {
		c.Auth.AdminPassword = s
	}

	if s := v.GetString("db.password"); s != "" {
		c.DB.Password = s
	}
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(redact(*c)); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(redact(*c)); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

func redact(c Config) Config {
	if c.Auth.SecretKey != "" {
		c.Auth.SecretKey = redacted
	}

	if c.Auth.AdminPassword != "" {
		c.Auth.AdminPassword = redacted
	}

	if c.DB.Password != "" {
		c.DB.Password = redacted
	}

	return c
}

// validate minimal config settings and fill in defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	// validate webserver listening port
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	// validate access-control-allow-origin
	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if len(c.Auth.SecretKey) < MinSecretKeyLen {
		return errors.Wrap(ErrSecretKeyTooShort, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case "", "mysql", "postgres", "sqlite":
	default:
		return errors.Wrap(ErrUnknownGormEngine, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.BodyLimit == 0 {
		c.Webserver.BodyLimit = defaultBodyLimit
	}

	if c.Auth.AccessTokenExpireMinutes == 0 {
		c.Auth.AccessTokenExpireMinutes = defaultAccessTokenMinutes
	}

	if c.Auth.RefreshTokenExpireDays == 0 {
		c.Auth.RefreshTokenExpireDays = defaultRefreshTokenDays
	}

	if c.Storage.VideoPath == "" {
		c.Storage.VideoPath = defaultVideoPath
	}

	if c.Storage.FramePath == "" {
		c.Storage.FramePath = defaultFramePath
	}

	return nil
}
