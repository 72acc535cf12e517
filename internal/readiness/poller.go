package readiness

import (
	"context"
	"errors"
	"time"

	"github.com/MrSnakeDoc/extwait/internal/logger"
)

// DefaultBaseDelay is the backoff unit: the wait after attempt n is (n-1) units.
const DefaultBaseDelay = time.Second

// ErrNotUp is matched by every exhaustion error returned from Poller.Wait.
var ErrNotUp = errors.New("Extension is not up") //nolint:staticcheck // message is part of the build log contract

// ExhaustedError reports that no attempt came back ready.
type ExhaustedError struct {
	Attempts int
	Last     Outcome
}

func (e *ExhaustedError) Error() string { return ErrNotUp.Error() }

func (e *ExhaustedError) Is(target error) bool { return target == ErrNotUp }

// Attempt records one completed probe and the wait scheduled after it.
type Attempt struct {
	Number  int
	Outcome Outcome
	Delay   time.Duration
	Elapsed time.Duration
}

type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error { return f(ctx, d) }

// TimerSleeper waits on a timer. Cancelling ctx aborts the wait with ctx.Err().
var TimerSleeper Sleeper = SleeperFunc(func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
})

type Poller struct {
	Prober    Prober
	Sleeper   Sleeper
	BaseDelay time.Duration
	Observer  func(Attempt)
}

func NewPoller(prober Prober) *Poller {
	return &Poller{
		Prober:    prober,
		Sleeper:   TimerSleeper,
		BaseDelay: DefaultBaseDelay,
	}
}

// Backoff returns the wait after the given 1-based attempt failed.
func Backoff(attempt int, base time.Duration) time.Duration {
	if attempt <= 1 {
		return 0
	}
	return time.Duration(attempt-1) * base
}

// Wait probes endpoint until it reports ready for versionID or maxTries
// attempts have been made. Attempts run strictly one after another.
func (p *Poller) Wait(ctx context.Context, versionID string, maxTries int, endpoint string) error {
	sleeper := p.Sleeper
	if sleeper == nil {
		sleeper = TimerSleeper
	}

	var last Outcome
	made := 0
	for attempt := 1; attempt <= maxTries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		logger.Info("Checking if extension is up, attempt %d/%d", attempt, maxTries)
		start := time.Now()
		out := p.Prober.Probe(ctx, versionID, endpoint)
		made = attempt
		rec := Attempt{Number: attempt, Outcome: out, Elapsed: time.Since(start)}

		if out.Ready {
			p.observe(rec)
			logger.Success("Extension is up!")
			return nil
		}
		last = out

		if attempt == maxTries {
			p.observe(rec)
			logger.Warn("Extension is not available: %s", out.Detail())
			break
		}

		rec.Delay = Backoff(attempt, p.BaseDelay)
		p.observe(rec)
		logger.Warn("Extension is not available: %s, waiting %s", out.Detail(), rec.Delay)

		if err := sleeper.Sleep(ctx, rec.Delay); err != nil {
			return err
		}
	}

	return &ExhaustedError{Attempts: made, Last: last}
}

func (p *Poller) observe(a Attempt) {
	if p.Observer != nil {
		p.Observer(a)
	}
}
