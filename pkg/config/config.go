// Package config loads phaserun settings from embedded defaults, the global config
// directory, a project-local .phaserun/config and environment variables.
package config

import (
	"embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/playtest-app/phaserun/pkg/notify"
)

// environment variables overriding the configured target
const (
	EnvBaseURL    = "PHASERUN_BASE_URL"
	EnvBackendURL = "PHASERUN_BACKEND_URL"
)

// DefaultProfile is the timeout profile every other profile is layered on.
const DefaultProfile = "default"

//go:embed defaults/config
var defaultsFS embed.FS

// DefaultsFS returns the embedded defaults filesystem.
func DefaultsFS() embed.FS { return defaultsFS }

// Config is the resolved phaserun configuration.
type Config struct {
	BaseURL               string
	BackendURL            string
	Headless              bool
	SlowMo                time.Duration
	SessionMarkerSelector string
	ArtifactsDir          string
	ScreenshotOnFailure   bool
	VideoOnFailure        bool
	ScenariosDir          string
	Profiles              map[string]Timeouts
	Colors                ColorConfig
	NotifyParams          notify.Params

	ConfigDir string // global config directory the values were loaded from
}

// Options control where Load looks for configuration.
type Options struct {
	ConfigDir string              // global config dir, defaults to ~/.config/phaserun
	LocalPath string              // local config file, defaults to .phaserun/config
	NoInstall bool                // skip writing the default config into ConfigDir
	LookupEnv func(string) string // defaults to os.Getenv
}

// DefaultConfigDir returns ~/.config/phaserun.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "phaserun"), nil
}

// Load resolves the configuration: embedded defaults, then the global config file,
// then the local one, then environment overrides for the target URLs.
func Load(opts Options) (*Config, error) {
	if opts.ConfigDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		opts.ConfigDir = dir
	}
	if opts.LocalPath == "" {
		opts.LocalPath = filepath.Join(".phaserun", "config")
	}
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.Getenv
	}

	if !opts.NoInstall {
		if err := newDefaultsInstaller(defaultsFS).Install(opts.ConfigDir); err != nil {
			return nil, fmt.Errorf("install defaults: %w", err)
		}
	}

	globalPath := filepath.Join(opts.ConfigDir, "config")
	values, err := newValuesLoader(defaultsFS).Load(opts.LocalPath, globalPath)
	if err != nil {
		return nil, fmt.Errorf("load values: %w", err)
	}
	colors, err := loadColors(defaultsFS, globalPath, opts.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("load colors: %w", err)
	}

	if v := opts.LookupEnv(EnvBaseURL); v != "" {
		values.BaseURL = v
	}
	if v := opts.LookupEnv(EnvBackendURL); v != "" {
		values.BackendURL = v
	}

	cfg := &Config{
		BaseURL:               values.BaseURL,
		BackendURL:            values.BackendURL,
		Headless:              values.Headless,
		SlowMo:                time.Duration(values.SlowMoMs) * time.Millisecond,
		SessionMarkerSelector: values.SessionMarkerSelector,
		ArtifactsDir:          values.ArtifactsDir,
		ScreenshotOnFailure:   values.ScreenshotOnFailure,
		VideoOnFailure:        values.VideoOnFailure,
		ScenariosDir:          values.ScenariosDir,
		Profiles:              values.Profiles,
		Colors:                colors,
		NotifyParams: notify.Params{
			Channels:   values.NotifyChannels,
			OnError:    values.NotifyOnError,
			OnComplete: values.NotifyOnComplete,
			Timeout:    time.Duration(values.NotifyTimeoutMs) * time.Millisecond,
			Telegram:   notify.TelegramParams{Token: values.NotifyTelegramToken, Chat: values.NotifyTelegramChat},
			Slack:      notify.SlackParams{Token: values.NotifySlackToken, Channel: values.NotifySlackChannel},
			Email: notify.EmailParams{
				Host:     values.NotifySMTPHost,
				Port:     values.NotifySMTPPort,
				Username: values.NotifySMTPUsername,
				Password: values.NotifySMTPPassword,
				StartTLS: values.NotifySMTPStartTLS,
				From:     values.NotifyEmailFrom,
				To:       values.NotifyEmailTo,
			},
			Webhooks: values.NotifyWebhookURLs,
			Script:   values.NotifyCustomScript,
		},
		ConfigDir: opts.ConfigDir,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the target URLs and the presence of the default profile.
func (c *Config) Validate() error {
	if err := ValidateURL("base_url", c.BaseURL); err != nil {
		return err
	}
	if c.BackendURL != "" {
		if err := ValidateURL("backend_url", c.BackendURL); err != nil {
			return err
		}
	}
	if _, ok := c.Profiles[DefaultProfile]; !ok {
		return errors.New("timeout profile \"default\" is not defined")
	}
	return nil
}

// Profile returns the named timeout profile layered on top of the default one.
// an empty name returns the default profile.
func (c *Config) Profile(name string) (Timeouts, error) {
	base := c.Profiles[DefaultProfile]
	if name == "" || name == DefaultProfile {
		return base, nil
	}
	t, ok := c.Profiles[name]
	if !ok {
		return Timeouts{}, fmt.Errorf("unknown timeout profile %q", name)
	}
	return base.Merge(t), nil
}

// ValidateURL checks that raw is an absolute http(s) URL.
func ValidateURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("invalid %s: empty", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s: %q is not an absolute http(s) url", name, raw)
	}
	return nil
}
