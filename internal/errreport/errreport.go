// Package errreport forwards unexpected server-side errors to an external
// error tracker.
package errreport

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Reporter receives errors that were already logged and could not be returned
// to a client.
type Reporter interface {
	Report(err error)
	Flush(timeout time.Duration)
}

// Nop discards every report.
type Nop struct{}

// Report implements Reporter.
func (Nop) Report(error) {}

// Flush implements Reporter.
func (Nop) Flush(time.Duration) {}

// Sentry reports through the global sentry-go hub.
type Sentry struct{}

// NewSentry initialises the Sentry client. An empty dsn yields a Nop reporter.
func NewSentry(dsn, release, environment string) (Reporter, error) {
	if dsn == "" {
		return Nop{}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Release:     release,
		Environment: environment,
	})
	if err != nil {
		return nil, fmt.Errorf("init sentry: %w", err)
	}
	return Sentry{}, nil
}

// Report implements Reporter.
func (Sentry) Report(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}

// Flush implements Reporter.
func (Sentry) Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}
