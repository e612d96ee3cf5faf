// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Browser Provisioning - these keys govern how the automation browser and driver are resolved and launched.
const (
	BrowserVersion         = "browser.version"
	BrowserHeadless        = "browser.headless"
	BrowserStealthStrict   = "browser.stealth_strict"
	BrowserChannelAttempts = "browser.channel_attempts"
	BrowserChannelBackoff  = "browser.channel_backoff_ms"
)

// Ad-block Extension - these keys manage the uBlock Origin lifecycle.
const (
	ExtensionEnable  = "extension.enable"
	ExtensionKeyword = "extension.keyword"
	ExtensionTimeout = "extension.timeout_seconds"
)

// Download Defaults - these keys seed the CLI flags handed to the download orchestrator.
const (
	DownloadConcurrency      = "download.concurrency"
	DownloadRetries          = "download.retries"
	DownloadDDoSWaitEpisodes = "download.ddos_wait_episodes"
	DownloadDDoSWaitMs       = "download.ddos_wait_ms"
)

// Networking - these keys tune the shared HTTP client.
const (
	NetworkTLSFingerprint = "network.tls_fingerprint"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern presentation.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
	IconsVariant    = "icons.variant"
)
