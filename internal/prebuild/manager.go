package prebuild

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/extwait/internal/buildid"
	"github.com/MrSnakeDoc/extwait/internal/logger"
	"github.com/MrSnakeDoc/extwait/internal/readiness"
	"github.com/MrSnakeDoc/extwait/internal/report"
	"github.com/MrSnakeDoc/extwait/internal/service"
	"github.com/MrSnakeDoc/extwait/internal/settings"
)

// Manager runs the pre-build hook: publish the build id, then wait for the
// extension runner serving that build.
type Manager struct {
	Settings *settings.Settings
	Prober   readiness.Prober
	Sleeper  readiness.Sleeper
	Now      func() time.Time

	recorder *report.Recorder
}

func New(s *settings.Settings, prober readiness.Prober) *Manager {
	if prober == nil {
		prober = readiness.NewHTTPProber(service.NewHTTPClient(s.Timeout))
	}
	return &Manager{
		Settings: s,
		Prober:   prober,
		Sleeper:  readiness.TimerSleeper,
		Now:      time.Now,
		recorder: report.NewRecorder(),
	}
}

func (m *Manager) Execute(ctx context.Context, id string) error {
	if err := buildid.WriteEnvFile(m.Settings.EnvFile, id); err != nil {
		return err
	}
	logger.Info("Wrote %s to %s", buildid.Line(id), m.Settings.EnvFile)

	if m.Settings.Disable {
		logger.Warn("Waiting for the extension runner is disabled (%s)", settings.DisableEnv)
		return nil
	}

	endpoint, err := m.Settings.Endpoint(m.Now())
	if err != nil {
		return err
	}

	poller := readiness.NewPoller(m.Prober)
	poller.BaseDelay = m.Settings.BaseDelay
	poller.Sleeper = m.Sleeper
	poller.Observer = m.recorder.Observe

	logger.Info("Waiting for extension version %s at %s (max %d attempts)", id, endpoint, m.Settings.MaxTries)
	err = poller.Wait(ctx, id, m.Settings.MaxTries, endpoint)
	m.recorder.Render()

	var exhausted *readiness.ExhaustedError
	if errors.As(err, &exhausted) {
		return err
	}
	if err != nil {
		return fmt.Errorf("waiting for extension: %w", err)
	}

	logger.Success("Extension %s is up after %d attempt(s), %s", id, len(m.recorder.Attempts()), m.recorder.Total().Truncate(time.Millisecond))
	return nil
}

// Attempts exposes what the last Execute observed.
func (m *Manager) Attempts() []readiness.Attempt {
	return m.recorder.Attempts()
}
