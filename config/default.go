// Package config registers every episodl setting and loads them through viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/episodl/episodl/constant"
	"github.com/episodl/episodl/icon"
	"github.com/episodl/episodl/key"
	"github.com/episodl/episodl/limit"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Default maps every known key to its field.
var Default = make(map[string]Field)

// EnvExposed lists the keys that can be overridden from the environment.
var EnvExposed []string

var fields = []Field{
	{Key: key.BrowserVersion, Value: constant.ChromeMajorVersion, Description: "Major version of Chrome and ChromeDriver to provision", Validate: atLeast(1)},
	{Key: key.BrowserHeadless, Value: true, Description: "Run the automation browser without a window"},
	{Key: key.BrowserStealthStrict, Value: true, Description: "Abort session bring-up when the anti-detection patch fails.\nWhen disabled, an unpatched session is used and a warning is logged"},
	{Key: key.BrowserChannelAttempts, Value: 100, Description: "How many times to try connecting to ChromeDriver before giving up", Validate: atLeast(1)},
	{Key: key.BrowserChannelBackoff, Value: 50, Description: "Milliseconds to wait between ChromeDriver connection attempts", Validate: atLeast(0)},

	{Key: key.ExtensionEnable, Value: true, Description: "Load uBlock Origin into the automation browser"},
	{Key: key.ExtensionKeyword, Value: constant.UBlockAssetKeyword, Description: "Release asset name fragment used to pick the uBlock Origin build", Validate: nonEmpty},
	{Key: key.ExtensionTimeout, Value: 120, Description: "Deadline in seconds for checking, downloading and unpacking uBlock Origin", Validate: atLeast(1)},

	{Key: key.DownloadConcurrency, Value: "5", Description: "Concurrent downloads.\nA positive number or \"inf\"", Validate: limitOf(limit.Inf)},
	{Key: key.DownloadRetries, Value: "5", Description: "Download retries.\nA positive number or \"inf\"", Validate: limitOf(limit.Inf)},
	{Key: key.DownloadDDoSWaitEpisodes, Value: "4", Description: "Amount of requests before waiting.\nA positive number or \"never\"", Validate: limitOf(limit.Never)},
	{Key: key.DownloadDDoSWaitMs, Value: 60 * 1000, Description: "The duration in milliseconds to wait", Validate: atLeast(0)},

	{Key: key.NetworkTLSFingerprint, Value: false, Description: "Use a Chrome TLS fingerprint for file downloads"},

	{Key: key.LogsWrite, Value: false, Description: "Write logs"},
	{Key: key.LogsLevel, Value: "info", Description: "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace", Validate: logLevel},
	{Key: key.LogsJson, Value: false, Description: "Use json format for logs"},

	{Key: key.CliColored, Value: true, Description: "Enable colored CLI output"},
	{Key: key.CliVersionCheck, Value: true, Description: "Enable automatic version check"},
	{Key: key.IconsVariant, Value: "plain", Description: "Icons variant.\nAvailable options are: " + strings.Join(icon.AvailableVariants(), ", ") + " (nerd-font required for nerd)", Validate: oneOf(icon.AvailableVariants()...)},
}

func init() {
	for _, f := range fields {
		if _, exists := Default[f.Key]; exists {
			panic("duplicate config key: " + f.Key)
		}
		Default[f.Key] = f
		EnvExposed = append(EnvExposed, f.Key)
	}
}

func atLeast(n int) func(any) error {
	return func(v any) error {
		if v.(int) < n {
			return fmt.Errorf("must be at least %d", n)
		}
		return nil
	}
}

func nonEmpty(v any) error {
	if strings.TrimSpace(v.(string)) == "" {
		return errors.New("must not be empty")
	}
	return nil
}

func limitOf(sentinel string) func(any) error {
	return func(v any) error {
		return limit.Parse(v.(string), sentinel).Err()
	}
}

func logLevel(v any) error {
	_, err := logrus.ParseLevel(v.(string))
	return err
}

func oneOf(options ...string) func(any) error {
	return func(v any) error {
		if !lo.Contains(options, v.(string)) {
			return fmt.Errorf("expected one of %s", strings.Join(options, ", "))
		}
		return nil
	}
}
