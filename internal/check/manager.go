package check

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/extwait/internal/logger"
	"github.com/MrSnakeDoc/extwait/internal/readiness"
	"github.com/MrSnakeDoc/extwait/internal/service"
	"github.com/MrSnakeDoc/extwait/internal/settings"
)

// Manager performs a single status check without retrying.
type Manager struct {
	Settings *settings.Settings
	Prober   readiness.Prober
	Now      func() time.Time
}

func New(s *settings.Settings, prober readiness.Prober) *Manager {
	if prober == nil {
		prober = readiness.NewHTTPProber(service.NewHTTPClient(s.Timeout))
	}
	return &Manager{Settings: s, Prober: prober, Now: time.Now}
}

func (m *Manager) Execute(ctx context.Context, id string) (readiness.Outcome, error) {
	endpoint, err := m.Settings.Endpoint(m.Now())
	if err != nil {
		return readiness.Outcome{}, err
	}

	out := m.Prober.Probe(ctx, id, endpoint)
	if !out.Ready {
		logger.Warn("Extension %s is not ready: %s", id, out.Detail())
		return out, fmt.Errorf("extension %s is not ready: %s", id, out.Detail())
	}

	logger.Success("Extension %s is up (served by %s)", id, out.Served)
	return out, nil
}
