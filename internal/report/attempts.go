package report

import (
	"fmt"
	"time"

	"github.com/MrSnakeDoc/extwait/internal/logger"
	"github.com/MrSnakeDoc/extwait/internal/readiness"
)

// Recorder collects poll attempts for the end-of-run summary.
type Recorder struct {
	attempts []readiness.Attempt
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Observe matches readiness.Poller.Observer.
func (r *Recorder) Observe(a readiness.Attempt) {
	r.attempts = append(r.attempts, a)
}

func (r *Recorder) Attempts() []readiness.Attempt {
	return r.attempts
}

// Last returns the most recent attempt, if any.
func (r *Recorder) Last() (readiness.Attempt, bool) {
	if len(r.attempts) == 0 {
		return readiness.Attempt{}, false
	}
	return r.attempts[len(r.attempts)-1], true
}

// Total is the time spent probing plus waiting.
func (r *Recorder) Total() time.Duration {
	var total time.Duration
	for _, a := range r.attempts {
		total += a.Elapsed + a.Delay
	}
	return total
}

func (r *Recorder) Render() {
	if len(r.attempts) == 0 {
		return
	}

	table := logger.CreateTable([]string{"Attempt", "Outcome", "Served", "Status", "Detail", "Took", "Wait"})
	for _, a := range r.attempts {
		if err := table.Append(row(a)); err != nil {
			logger.LogError("Error appending to table: %v", err)
			return
		}
	}

	if err := table.Render(); err != nil {
		logger.LogError("Error rendering table: %v", err)
	}
}

func row(a readiness.Attempt) []string {
	status := "-"
	if a.Outcome.StatusCode != 0 {
		status = fmt.Sprintf("%d", a.Outcome.StatusCode)
	}
	served := a.Outcome.Served
	if served == "" {
		served = "-"
	}
	wait := "-"
	if a.Delay > 0 {
		wait = a.Delay.String()
	}
	return []string{
		fmt.Sprintf("%d", a.Number),
		a.Outcome.String(),
		served,
		status,
		a.Outcome.Detail(),
		a.Elapsed.Truncate(time.Millisecond).String(),
		wait,
	}
}
