// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Episodl is the canonical application identifier used for filesystem paths and CLI branding.
	Episodl = "episodl"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// UserAgent is the default HTTP User-Agent string used for requests that do not go through a browser session.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36"
)

// Build metadata, overridden at link time with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

// Repository is the GitHub owner/name pair releases are published under.
const Repository = "episodl/episodl"

// AsciiArtLogo is printed above the root command help.
const AsciiArtLogo = `
               _               _ _
   ___ _ __ (_)___  ___   __| | |
  / _ \ '_ \| / __|/ _ \ / _` + "`" + ` | |
 |  __/ |_) | \__ \ (_) | (_| | |
  \___| .__/|_|___/\___/ \__,_|_|
      |_|`
