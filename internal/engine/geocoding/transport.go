package geocoding

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	utls "github.com/refraction-networking/utls"
)

const (
	FingerprintNone   = "none"
	FingerprintChrome = "chrome"
)

// NewHTTPClient builds the client used by the providers. A zero timeout means
// the request waits as long as the network stack does. With the chrome
// fingerprint the TLS handshake mimics a desktop Chrome so endpoints fronted by
// bot protection accept it.
func NewHTTPClient(timeout time.Duration, fingerprint string) (*http.Client, error) {
	switch fingerprint {
	case "", FingerprintNone:
		return &http.Client{Timeout: timeout}, nil
	case FingerprintChrome:
		return &http.Client{Timeout: timeout, Transport: chromeTransport()}, nil
	default:
		return nil, fmt.Errorf("unknown tls fingerprint %q", fingerprint)
	}
}

func chromeTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}

			host, _, err := net.SplitHostPort(addr)
			if err != nil {
				host = addr
			}

			// Chrome hello, but only advertise HTTP/1.1 since net/http won't speak h2 over a custom conn
			spec, err := utls.UTLSIdToSpec(utls.HelloChrome_Auto)
			if err != nil {
				conn.Close()
				return nil, err
			}
			for i, ext := range spec.Extensions {
				if alpn, ok := ext.(*utls.ALPNExtension); ok {
					alpn.AlpnProtocols = []string{"http/1.1"}
					spec.Extensions[i] = alpn
					break
				}
			}

			tlsConn := utls.UClient(conn, &utls.Config{ServerName: host}, utls.HelloCustom)
			if err := tlsConn.ApplyPreset(&spec); err != nil {
				conn.Close()
				return nil, err
			}
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, err
			}
			return tlsConn, nil
		},
		MaxIdleConns:    10,
		IdleConnTimeout: 90 * time.Second,
	}
}
