// ABOUTME: Server configuration loaded from CLUSTERLENS_* environment variables and an optional YAML file.
// ABOUTME: Enforces security constraint: remote access requires auth token.
package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigError represents configuration validation errors.
var (
	ErrRemoteWithoutToken = errors.New(
		"CLUSTERLENS_ALLOW_REMOTE is true but CLUSTERLENS_AUTH_TOKEN is not set; refusing to start without authentication",
	)
	ErrNonLoopbackBind = errors.New(
		"CLUSTERLENS_BIND is a non-loopback address but CLUSTERLENS_ALLOW_REMOTE is not true; set CLUSTERLENS_ALLOW_REMOTE=true and CLUSTERLENS_AUTH_TOKEN to allow remote access",
	)
)

// Config holds server configuration. Values come from CLUSTERLENS_*
// environment variables, with clusterlens.yaml (if present in the data
// directory) supplying defaults beneath them.
type Config struct {
	Home        string // Data directory (CLUSTERLENS_HOME, default: ~/.clusterlens)
	Bind        string // Socket address (CLUSTERLENS_BIND, default: 127.0.0.1:7790)
	AllowRemote bool   // Allow non-loopback connections (CLUSTERLENS_ALLOW_REMOTE, default: false)
	AuthToken   string // Bearer token for API auth (CLUSTERLENS_AUTH_TOKEN, optional)
	OpenAIKey   string // API key for diagram generation (CLUSTERLENS_OPENAI_API_KEY or OPENAI_API_KEY)
	Model       string // Completion model name (CLUSTERLENS_MODEL, optional)
	BaseURL     string // OpenAI-compatible base URL (CLUSTERLENS_OPENAI_BASE_URL, optional)
	Kubeconfig  string // Kubeconfig path override (CLUSTERLENS_KUBECONFIG, optional)
}

// fileConfig is the clusterlens.yaml shape. Every field is optional;
// environment variables win over file values.
type fileConfig struct {
	Bind        string `yaml:"bind"`
	AllowRemote bool   `yaml:"allow_remote"`
	AuthToken   string `yaml:"auth_token"`
	Model       string `yaml:"model"`
	BaseURL     string `yaml:"base_url"`
	Kubeconfig  string `yaml:"kubeconfig"`
}

// ConfigFromEnv loads configuration from CLUSTERLENS_* environment variables
// with sensible defaults, merging clusterlens.yaml from the data directory
// beneath them.
func ConfigFromEnv() (*Config, error) {
	home := os.Getenv("CLUSTERLENS_HOME")
	if home == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "/tmp"
		}
		home = filepath.Join(homeDir, ".clusterlens")
	}

	var fc fileConfig
	if data, err := os.ReadFile(filepath.Join(home, "clusterlens.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse clusterlens.yaml: %w", err)
		}
	}

	bind := firstNonEmpty(os.Getenv("CLUSTERLENS_BIND"), fc.Bind, "127.0.0.1:7790")

	allowRemote := fc.AllowRemote
	if v := os.Getenv("CLUSTERLENS_ALLOW_REMOTE"); v != "" {
		allowRemote = v == "true" || v == "1" || v == "yes"
	}

	authToken := firstNonEmpty(os.Getenv("CLUSTERLENS_AUTH_TOKEN"), fc.AuthToken)
	openAIKey := firstNonEmpty(os.Getenv("CLUSTERLENS_OPENAI_API_KEY"), os.Getenv("OPENAI_API_KEY"))
	model := firstNonEmpty(os.Getenv("CLUSTERLENS_MODEL"), fc.Model)
	baseURL := firstNonEmpty(os.Getenv("CLUSTERLENS_OPENAI_BASE_URL"), fc.BaseURL)
	kubeconfig := firstNonEmpty(os.Getenv("CLUSTERLENS_KUBECONFIG"), fc.Kubeconfig)

	// Security: remote access requires auth token
	if allowRemote && authToken == "" {
		return nil, ErrRemoteWithoutToken
	}

	if err := ValidateBind(bind, allowRemote); err != nil {
		return nil, err
	}

	return &Config{
		Home:        home,
		Bind:        bind,
		AllowRemote: allowRemote,
		AuthToken:   authToken,
		OpenAIKey:   openAIKey,
		Model:       model,
		BaseURL:     baseURL,
		Kubeconfig:  kubeconfig,
	}, nil
}

// ValidateBind refuses non-loopback bind addresses unless remote access is
// explicitly allowed. Checks both IP literals and hostnames; only 127.0.0.0/8,
// ::1, and "localhost" are considered safe. Callers that accept a bind address
// from outside the environment (flags, API) must re-validate after overriding.
func ValidateBind(bind string, allowRemote bool) error {
	if allowRemote {
		return nil
	}
	host, _, err := net.SplitHostPort(bind)
	if err != nil || host == "" {
		return nil
	}
	ip := net.ParseIP(host)
	switch {
	case ip != nil && ip.IsLoopback():
		// Safe: 127.x.x.x or ::1
	case ip != nil:
		return fmt.Errorf("%w: bind=%s", ErrNonLoopbackBind, bind)
	case host == "localhost":
		// Safe: conventional loopback hostname
	default:
		return fmt.Errorf("%w: bind=%s", ErrNonLoopbackBind, bind)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
