// Package nutanix is a typed client for the subset of the Nutanix Prism
// Central v4 REST API used by the shim: cluster management, VM management
// and networking.
package nutanix

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPort             = 9440
	DefaultMaxRetryAttempts = 3
	DefaultBackoffFactor    = 3 * time.Second
	DefaultTimeout          = 60 * time.Second

	// MaxPageSize is the largest page Prism Central returns for list calls.
	MaxPageSize = 100

	scheme = "https"
)

// Configuration holds the connection settings shared by every API handle
// built from one APIClient.
type Configuration struct {
	Host      string
	Port      int
	APIKey    string
	VerifySSL bool

	// MaxRetryAttempts is the number of retries after the first attempt.
	MaxRetryAttempts int
	// BackoffFactor is the wait before the first retry; it doubles per retry.
	BackoffFactor time.Duration
	Timeout       time.Duration

	// WrapTransport, when set, decorates the underlying round tripper
	// (used for metrics).
	WrapTransport func(http.RoundTripper) http.RoundTripper

	Logger *zap.Logger
}

// NewConfiguration returns a Configuration with the default port, retry and
// timeout settings and TLS verification enabled.
func NewConfiguration(host, apiKey string) *Configuration {
	return &Configuration{
		Host:             host,
		Port:             DefaultPort,
		APIKey:           apiKey,
		VerifySSL:        true,
		MaxRetryAttempts: DefaultMaxRetryAttempts,
		BackoffFactor:    DefaultBackoffFactor,
		Timeout:          DefaultTimeout,
	}
}
