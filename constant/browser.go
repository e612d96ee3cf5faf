package constant

// ChromeMajorVersion is the browser major version the provisioner pins by default.
const ChromeMajorVersion = 128

// uBlock Origin release feed and on-disk layout under the data directory.
const (
	UBlockReleaseURL   = "https://api.github.com/repos/gorhill/uBlock/releases/latest"
	UBlockVersionFile  = "current_ublock_version"
	UBlockDir          = "uBlock"
	UBlockArchive      = "uBlock.zip"
	UBlockAssetKeyword = "chromium"
)

// ChromeForTestingURL lists known good browser and driver builds keyed by milestone.
const ChromeForTestingURL = "https://googlechromelabs.github.io/chrome-for-testing/latest-versions-per-milestone-with-downloads.json"
