// Package httpclient configures the HTTP client used to call the geocoding
// and map data providers.
package httpclient

import (
	"net"
	"net/http"
	"time"
)

type uaTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *uaTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	return t.base.RoundTrip(req)
}

// NewOutbound creates an outbound client. Both Nominatim and Overpass
// require an identifying User-Agent, so it is stamped on every request.
func NewOutbound(userAgent string, timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          16,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{
		Transport: &uaTransport{base: transport, userAgent: userAgent},
		Timeout:   timeout,
	}
}
