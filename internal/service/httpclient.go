// service/httpclient.go
package service

import (
	"net"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/extwait/internal/logger"
	"golang.org/x/net/http2"
)

// DefaultTimeout bounds a single status call.
const DefaultTimeout = 10 * time.Second

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type DefaultHTTPClient struct{ *http.Client }

func NewHTTPClient(timeout time.Duration) *DefaultHTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          4,
	}
	if err := http2.ConfigureTransport(transport); err != nil {
		logger.Debug("http2 unavailable, falling back to HTTP/1.1: %v", err)
	}

	return &DefaultHTTPClient{Client: &http.Client{Timeout: timeout, Transport: transport}}
}
