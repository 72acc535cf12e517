package readiness

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/extwait/internal/logger"
	"github.com/MrSnakeDoc/extwait/internal/service"
	"github.com/MrSnakeDoc/extwait/internal/utils"
	"github.com/google/uuid"
)

const (
	// VersionHeader carries the requested build version and, on the
	// response, the version of the runner revision that served it.
	VersionHeader   = "Commercetools-Frontend-Extension-Version"
	RequestIDHeader = "X-Request-Id"

	maxStatusBytes = 64 << 10
)

// Prober performs a single readiness check. Implementations never return an
// error: every failure is folded into the Outcome.
type Prober interface {
	Probe(ctx context.Context, versionID, endpoint string) Outcome
}

type HTTPProber struct {
	Client    service.HTTPClient
	RequestID string
}

func NewHTTPProber(client service.HTTPClient) *HTTPProber {
	if client == nil {
		client = service.NewHTTPClient(service.DefaultTimeout)
	}
	return &HTTPProber{
		Client:    client,
		RequestID: uuid.NewString(),
	}
}

func (p *HTTPProber) Probe(ctx context.Context, versionID, endpoint string) Outcome {
	logger.Debug("Calling %s (version %s, request %s)", endpoint, versionID, p.RequestID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return p.trace(endpoint, transportFailure(0, fmt.Errorf("failed to create request: %w", err)))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(VersionHeader, versionID)
	if p.RequestID != "" {
		req.Header.Set(RequestIDHeader, p.RequestID)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return p.trace(endpoint, transportFailure(0, fmt.Errorf("failed to perform request: %w", err)))
	}
	defer utils.Try(resp.Body.Close)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return p.trace(endpoint, transportFailure(resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)))
	}

	// A rolling deploy can leave older runner revisions behind the same host.
	// Their answer says nothing about this build, so the body stays unread.
	served := resp.Header.Get(VersionHeader)
	if served != versionID {
		return p.trace(endpoint, versionMismatch(served, resp.StatusCode))
	}

	var status Status
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxStatusBytes)).Decode(&status); err != nil {
		return p.trace(endpoint, transportFailure(resp.StatusCode, fmt.Errorf("failed to decode status: %w", err)))
	}

	if !status.Up {
		return p.trace(endpoint, notUp(served, resp.StatusCode))
	}
	return p.trace(endpoint, ready(served, resp.StatusCode))
}

func (p *HTTPProber) trace(endpoint string, o Outcome) Outcome {
	if o.Ready {
		logger.Debug("%s answered ready (version %s)", endpoint, o.Served)
		return o
	}
	logger.Debug("%s answered not ready: %s", endpoint, o.Detail())
	return o
}
