package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrConfigurationMissing is returned when a required setting has no value.
var ErrConfigurationMissing = errors.New("required configuration missing")

type Config struct {
	Nutanix struct {
		Host             string        `mapstructure:"host"`
		Port             int           `mapstructure:"port"`
		APIKey           string        `mapstructure:"api_key"`
		VerifySSL        bool          `mapstructure:"verify_ssl"`
		MaxRetryAttempts int           `mapstructure:"max_retry_attempts"`
		BackoffFactor    time.Duration `mapstructure:"backoff_factor"`
		Timeout          time.Duration `mapstructure:"timeout"`
	} `mapstructure:"nutanix"`

	API struct {
		Port    int    `mapstructure:"port"`
		TLSCert string `mapstructure:"tls_cert"`
		TLSKey  string `mapstructure:"tls_key"`
	} `mapstructure:"api"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

// remote settings keep the unprefixed names the shim has always read
var nutanixEnv = map[string]string{
	"nutanix.host":               "NUTANIX_HOST",
	"nutanix.port":               "NUTANIX_PORT",
	"nutanix.api_key":            "NUTANIX_API_KEY",
	"nutanix.verify_ssl":         "NUTANIX_VERIFY_SSL",
	"nutanix.max_retry_attempts": "NUTANIX_MAX_RETRY_ATTEMPTS",
	"nutanix.backoff_factor":     "NUTANIX_BACKOFF_FACTOR",
	"nutanix.timeout":            "NUTANIX_TIMEOUT",
}

// Load reads configuration from defaults, an optional config file and the
// environment. configFile may be empty, in which case config.yaml is looked
// up in the working directory and /etc/nutanix-shim/.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("nutanix.host", "")
	v.SetDefault("nutanix.api_key", "")
	v.SetDefault("nutanix.port", 9440)
	v.SetDefault("nutanix.verify_ssl", true)
	v.SetDefault("nutanix.max_retry_attempts", 3)
	v.SetDefault("nutanix.backoff_factor", "3s")
	v.SetDefault("nutanix.timeout", "60s")
	v.SetDefault("api.port", 8000)
	v.SetDefault("api.tls_cert", "")
	v.SetDefault("api.tls_key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetEnvPrefix("SHIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range nutanixEnv {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/nutanix-shim/")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate reports every required setting that is absent.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Nutanix.Host) == "" {
		missing = append(missing, nutanixEnv["nutanix.host"])
	}
	if strings.TrimSpace(c.Nutanix.APIKey) == "" {
		missing = append(missing, nutanixEnv["nutanix.api_key"])
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrConfigurationMissing, strings.Join(missing, ", "))
	}

	if c.Nutanix.Port <= 0 || c.Nutanix.Port > 65535 {
		return fmt.Errorf("invalid %s: %d", nutanixEnv["nutanix.port"], c.Nutanix.Port)
	}
	if c.Nutanix.MaxRetryAttempts < 0 {
		return fmt.Errorf("invalid %s: %d", nutanixEnv["nutanix.max_retry_attempts"], c.Nutanix.MaxRetryAttempts)
	}
	if (c.API.TLSCert == "") != (c.API.TLSKey == "") {
		return errors.New("api.tls_cert and api.tls_key must be set together")
	}
	return nil
}
