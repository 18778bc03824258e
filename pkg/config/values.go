package config

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/ini.v1"
)

const profileSectionPrefix = "profile."

// Timeouts is one named timeout profile.
type Timeouts struct {
	Test       time.Duration // whole phase
	Navigation time.Duration // page.goto and url waits
	Action     time.Duration // click, fill, upload
	Expect     time.Duration // visibility and text assertions
}

// IsZero reports whether no timeout in the profile is set.
func (t Timeouts) IsZero() bool {
	return t.Test == 0 && t.Navigation == 0 && t.Action == 0 && t.Expect == 0
}

// Merge returns t with every non-zero field of other applied on top.
func (t Timeouts) Merge(other Timeouts) Timeouts {
	if other.Test > 0 {
		t.Test = other.Test
	}
	if other.Navigation > 0 {
		t.Navigation = other.Navigation
	}
	if other.Action > 0 {
		t.Action = other.Action
	}
	if other.Expect > 0 {
		t.Expect = other.Expect
	}
	return t
}

// Values holds scalar configuration values.
// Fields ending in *Set track whether the field was explicitly set, so a local config
// can override a global one with false or 0.
type Values struct {
	BaseURL               string
	BackendURL            string
	Headless              bool
	HeadlessSet           bool
	SlowMoMs              int
	SlowMoMsSet           bool
	SessionMarkerSelector string
	ArtifactsDir          string
	ScreenshotOnFailure   bool
	ScreenshotOnFailSet   bool
	VideoOnFailure        bool
	VideoOnFailureSet     bool
	ScenariosDir          string
	Profiles              map[string]Timeouts

	NotifyChannels      []string
	NotifyOnError       bool
	NotifyOnErrorSet    bool
	NotifyOnComplete    bool
	NotifyOnCompleteSet bool
	NotifyTimeoutMs     int
	NotifyTimeoutMsSet  bool
	NotifyTelegramToken string
	NotifyTelegramChat  string
	NotifySlackToken    string
	NotifySlackChannel  string
	NotifySMTPHost      string
	NotifySMTPPort      int
	NotifySMTPPortSet   bool
	NotifySMTPUsername  string
	NotifySMTPPassword  string
	NotifySMTPStartTLS  bool
	NotifySMTPTLSSet    bool
	NotifyEmailFrom     string
	NotifyEmailTo       []string
	NotifyWebhookURLs   []string
	NotifyCustomScript  string
}

// ProfileNames returns the names of all known timeout profiles, sorted.
func (v *Values) ProfileNames() []string {
	names := make([]string, 0, len(v.Profiles))
	for name := range v.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// valuesLoader loads Values with embedded filesystem fallback.
type valuesLoader struct {
	embedFS embed.FS
}

func newValuesLoader(embedFS embed.FS) *valuesLoader {
	return &valuesLoader{embedFS: embedFS}
}

// Load loads values from config files with fallback chain: local → global → embedded.
// localConfigPath and globalConfigPath are full paths to config files (not directories).
//
//nolint:dupl // intentional structural similarity with colorLoader.Load
func (vl *valuesLoader) Load(localConfigPath, globalConfigPath string) (Values, error) {
	embedded, err := vl.parseValuesFromEmbedded()
	if err != nil {
		return Values{}, fmt.Errorf("parse embedded defaults: %w", err)
	}

	global, err := vl.parseValuesFromFile(globalConfigPath)
	if err != nil {
		return Values{}, fmt.Errorf("parse global config: %w", err)
	}

	local, err := vl.parseValuesFromFile(localConfigPath)
	if err != nil {
		return Values{}, fmt.Errorf("parse local config: %w", err)
	}

	// merge: embedded → global → local (local wins)
	result := embedded
	result.mergeFrom(&global)
	result.mergeFrom(&local)

	return result, nil
}

// parseValuesFromFile reads a config file and parses it into Values.
// returns empty Values (not error) if the file doesn't exist or contains only comments.
func (vl *valuesLoader) parseValuesFromFile(path string) (Values, error) {
	data, err := readOptional(path)
	if err != nil {
		return Values{}, err
	}
	if strings.TrimSpace(stripComments(string(data))) == "" {
		return Values{}, nil
	}

	return vl.parseValuesFromBytes(data)
}

func (vl *valuesLoader) parseValuesFromEmbedded() (Values, error) {
	data, err := vl.embedFS.ReadFile("defaults/config")
	if err != nil {
		return Values{}, fmt.Errorf("read embedded defaults: %w", err)
	}
	return vl.parseValuesFromBytes(data)
}

// parseValuesFromBytes parses configuration from a byte slice into Values.
//
//nolint:gocyclo // flat list of keys, splitting would hurt readability
func (vl *valuesLoader) parseValuesFromBytes(data []byte) (Values, error) {
	// ignoreInlineComment: true prevents # in hex colors and selectors from being treated as comments
	cfg, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, data)
	if err != nil {
		return Values{}, fmt.Errorf("parse config: %w", err)
	}

	var values Values
	section := cfg.Section("")

	// target
	values.BaseURL = stringKey(section, "base_url")
	values.BackendURL = stringKey(section, "backend_url")

	// browser
	if values.Headless, values.HeadlessSet, err = boolKey(section, "headless"); err != nil {
		return Values{}, err
	}
	if values.SlowMoMs, values.SlowMoMsSet, err = nonNegativeIntKey(section, "slow_mo_ms"); err != nil {
		return Values{}, err
	}
	values.SessionMarkerSelector = stringKey(section, "session_marker_selector")

	// artifacts
	values.ArtifactsDir = stringKey(section, "artifacts_dir")
	if values.ScreenshotOnFailure, values.ScreenshotOnFailSet, err = boolKey(section, "screenshot_on_failure"); err != nil {
		return Values{}, err
	}
	if values.VideoOnFailure, values.VideoOnFailureSet, err = boolKey(section, "video_on_failure"); err != nil {
		return Values{}, err
	}
	values.ScenariosDir = stringKey(section, "scenarios_dir")

	// notifications
	values.NotifyChannels = listKey(section, "notify_channels")
	if values.NotifyOnError, values.NotifyOnErrorSet, err = boolKey(section, "notify_on_error"); err != nil {
		return Values{}, err
	}
	if values.NotifyOnComplete, values.NotifyOnCompleteSet, err = boolKey(section, "notify_on_complete"); err != nil {
		return Values{}, err
	}
	if values.NotifyTimeoutMs, values.NotifyTimeoutMsSet, err = nonNegativeIntKey(section, "notify_timeout_ms"); err != nil {
		return Values{}, err
	}
	values.NotifyTelegramToken = stringKey(section, "notify_telegram_token")
	values.NotifyTelegramChat = stringKey(section, "notify_telegram_chat")
	values.NotifySlackToken = stringKey(section, "notify_slack_token")
	values.NotifySlackChannel = stringKey(section, "notify_slack_channel")
	values.NotifySMTPHost = stringKey(section, "notify_smtp_host")
	if values.NotifySMTPPort, values.NotifySMTPPortSet, err = nonNegativeIntKey(section, "notify_smtp_port"); err != nil {
		return Values{}, err
	}
	values.NotifySMTPUsername = stringKey(section, "notify_smtp_username")
	values.NotifySMTPPassword = stringKey(section, "notify_smtp_password")
	if values.NotifySMTPStartTLS, values.NotifySMTPTLSSet, err = boolKey(section, "notify_smtp_starttls"); err != nil {
		return Values{}, err
	}
	values.NotifyEmailFrom = stringKey(section, "notify_email_from")
	values.NotifyEmailTo = listKey(section, "notify_email_to")
	values.NotifyWebhookURLs = listKey(section, "notify_webhook_urls")
	values.NotifyCustomScript = stringKey(section, "notify_custom_script")

	profiles, err := parseProfiles(cfg)
	if err != nil {
		return Values{}, err
	}
	values.Profiles = profiles

	return values, nil
}

// parseProfiles collects every [profile.<name>] section.
func parseProfiles(cfg *ini.File) (map[string]Timeouts, error) {
	profiles := map[string]Timeouts{}
	for _, section := range cfg.Sections() {
		name, ok := strings.CutPrefix(section.Name(), profileSectionPrefix)
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("invalid section %q: profile name is empty", section.Name())
		}

		var t Timeouts
		keys := []struct {
			key   string
			field *time.Duration
		}{
			{"test_timeout_ms", &t.Test},
			{"navigation_timeout_ms", &t.Navigation},
			{"action_timeout_ms", &t.Action},
			{"expect_timeout_ms", &t.Expect},
		}
		for _, k := range keys {
			key, err := section.GetKey(k.key)
			if err != nil {
				continue
			}
			val, intErr := key.Int()
			if intErr != nil {
				return nil, fmt.Errorf("invalid %s in profile %s: %w", k.key, name, intErr)
			}
			if val <= 0 {
				return nil, fmt.Errorf("invalid %s in profile %s: must be positive, got %d", k.key, name, val)
			}
			*k.field = time.Duration(val) * time.Millisecond
		}
		profiles[name] = t
	}
	return profiles, nil
}

func stringKey(section *ini.Section, name string) string {
	key, err := section.GetKey(name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(key.String())
}

// boolKey returns the value and whether the key was present.
func boolKey(section *ini.Section, name string) (val, set bool, err error) {
	key, keyErr := section.GetKey(name)
	if keyErr != nil {
		return false, false, nil
	}
	val, err = key.Bool()
	if err != nil {
		return false, false, fmt.Errorf("invalid %s: %w", name, err)
	}
	return val, true, nil
}

// nonNegativeIntKey returns the value and whether the key was present.
// an empty value counts as not set.
func nonNegativeIntKey(section *ini.Section, name string) (val int, set bool, err error) {
	key, keyErr := section.GetKey(name)
	if keyErr != nil || strings.TrimSpace(key.String()) == "" {
		return 0, false, nil
	}
	val, err = key.Int()
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s: %w", name, err)
	}
	if val < 0 {
		return 0, false, fmt.Errorf("invalid %s: must be non-negative, got %d", name, val)
	}
	return val, true, nil
}

// listKey splits a comma-separated value, dropping empty items.
func listKey(section *ini.Section, name string) []string {
	var res []string
	for p := range strings.SplitSeq(stringKey(section, name), ",") {
		if t := strings.TrimSpace(p); t != "" {
			res = append(res, t)
		}
	}
	return res
}

// stripComments removes full-line # and ; comments.
func stripComments(s string) string {
	var sb strings.Builder
	for line := range strings.Lines(s) {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, ";") {
			continue
		}
		sb.WriteString(line)
	}
	return sb.String()
}

// mergeFrom merges non-empty values from src into dst.
//
//nolint:gocyclo // one branch per key
func (dst *Values) mergeFrom(src *Values) {
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.BackendURL != "" {
		dst.BackendURL = src.BackendURL
	}
	if src.HeadlessSet {
		dst.Headless = src.Headless
		dst.HeadlessSet = true
	}
	if src.SlowMoMsSet {
		dst.SlowMoMs = src.SlowMoMs
		dst.SlowMoMsSet = true
	}
	if src.SessionMarkerSelector != "" {
		dst.SessionMarkerSelector = src.SessionMarkerSelector
	}
	if src.ArtifactsDir != "" {
		dst.ArtifactsDir = src.ArtifactsDir
	}
	if src.ScreenshotOnFailSet {
		dst.ScreenshotOnFailure = src.ScreenshotOnFailure
		dst.ScreenshotOnFailSet = true
	}
	if src.VideoOnFailureSet {
		dst.VideoOnFailure = src.VideoOnFailure
		dst.VideoOnFailureSet = true
	}
	if src.ScenariosDir != "" {
		dst.ScenariosDir = src.ScenariosDir
	}
	for name, t := range src.Profiles {
		if dst.Profiles == nil {
			dst.Profiles = map[string]Timeouts{}
		}
		dst.Profiles[name] = dst.Profiles[name].Merge(t)
	}

	if len(src.NotifyChannels) > 0 {
		dst.NotifyChannels = src.NotifyChannels
	}
	if src.NotifyOnErrorSet {
		dst.NotifyOnError = src.NotifyOnError
		dst.NotifyOnErrorSet = true
	}
	if src.NotifyOnCompleteSet {
		dst.NotifyOnComplete = src.NotifyOnComplete
		dst.NotifyOnCompleteSet = true
	}
	if src.NotifyTimeoutMsSet {
		dst.NotifyTimeoutMs = src.NotifyTimeoutMs
		dst.NotifyTimeoutMsSet = true
	}
	if src.NotifyTelegramToken != "" {
		dst.NotifyTelegramToken = src.NotifyTelegramToken
	}
	if src.NotifyTelegramChat != "" {
		dst.NotifyTelegramChat = src.NotifyTelegramChat
	}
	if src.NotifySlackToken != "" {
		dst.NotifySlackToken = src.NotifySlackToken
	}
	if src.NotifySlackChannel != "" {
		dst.NotifySlackChannel = src.NotifySlackChannel
	}
	if src.NotifySMTPHost != "" {
		dst.NotifySMTPHost = src.NotifySMTPHost
	}
	if src.NotifySMTPPortSet {
		dst.NotifySMTPPort = src.NotifySMTPPort
		dst.NotifySMTPPortSet = true
	}
	if src.NotifySMTPUsername != "" {
		dst.NotifySMTPUsername = src.NotifySMTPUsername
	}
	if src.NotifySMTPPassword != "" {
		dst.NotifySMTPPassword = src.NotifySMTPPassword
	}
	if src.NotifySMTPTLSSet {
		dst.NotifySMTPStartTLS = src.NotifySMTPStartTLS
		dst.NotifySMTPTLSSet = true
	}
	if src.NotifyEmailFrom != "" {
		dst.NotifyEmailFrom = src.NotifyEmailFrom
	}
	if len(src.NotifyEmailTo) > 0 {
		dst.NotifyEmailTo = src.NotifyEmailTo
	}
	if len(src.NotifyWebhookURLs) > 0 {
		dst.NotifyWebhookURLs = src.NotifyWebhookURLs
	}
	if src.NotifyCustomScript != "" {
		dst.NotifyCustomScript = src.NotifyCustomScript
	}
}
