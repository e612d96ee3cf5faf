package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

const dialTimeout = 30 * time.Second

// Fingerprinted returns a RoundTripper whose TLS Client Hello mimics Chrome,
// for hosts that reject the standard Go handshake. HTTP/2 is tried first and
// HTTP/1.1 is used when the server does not negotiate h2.
func Fingerprinted() http.RoundTripper {
	fingerprintOnce.Do(func() {
		fingerprint = &fallbackTransport{
			h2: &http2.Transport{
				DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
					return dialChrome(ctx, network, addr, nil)
				},
			},
			h1: &http.Transport{
				DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
					return dialChrome(ctx, network, addr, []string{"http/1.1"})
				},
			},
		}
	})
	return fingerprint
}

var (
	fingerprint     http.RoundTripper
	fingerprintOnce sync.Once
)

type fallbackTransport struct {
	h2 *http2.Transport
	h1 *http.Transport
}

func (t *fallbackTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return t.h1.RoundTrip(req)
	}

	resp, err := t.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	// Bodies cannot be replayed without GetBody.
	if req.Body != nil && req.GetBody == nil {
		return nil, err
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, bodyErr
		}
		retry.Body = body
	}
	return t.h1.RoundTrip(retry)
}

// dialChrome opens a TLS connection using the Chrome 120 Client Hello.
func dialChrome(ctx context.Context, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
