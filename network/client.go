// Package network provides pre-configured HTTP clients shared across the application.
package network

import (
	"net/http"
	"time"

	"github.com/episodl/episodl/key"
	"github.com/spf13/viper"
)

// Client is the singleton HTTP client used for release feeds and metadata.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

// newTransport initializes a tuned http.Transport with optimized pool and timeout parameters.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}

// ForDownloads returns the client file downloads should go through.
// Large transfers are bounded by the request context rather than a client timeout.
func ForDownloads() *http.Client {
	if viper.GetBool(key.NetworkTLSFingerprint) {
		return &http.Client{Transport: Fingerprinted()}
	}
	return &http.Client{Transport: Client.Transport}
}
