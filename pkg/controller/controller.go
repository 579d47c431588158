// Package controller holds the per-screen state machines. Every controller
// owns its collection exclusively: screens never share entity references,
// and cross-screen consistency comes from re-fetching or from bus events.
//
// The state machine per screen is loading -> ready; "empty" versus
// "populated" is derived from collection size, never stored. A failed fetch
// surfaces a notification and lands in ready with an empty collection, so
// no screen is ever stuck loading.
package controller

import "go.uber.org/zap"

type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
)

// Notifier surfaces transient, non-blocking notices to the user. Write
// failures and read failures both go through here; the screen itself stays
// usable.
type Notifier interface {
	Success(message string)
	Error(message string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

func NopNotifier() Notifier { return nopNotifier{} }

type zapNotifier struct {
	logger *zap.Logger
}

// NewZapNotifier routes notices to the log, for headless callers like the
// CLI.
func NewZapNotifier(logger *zap.Logger) Notifier {
	return zapNotifier{logger: logger.Named("notify")}
}

func (n zapNotifier) Success(message string) { n.logger.Info(message) }
func (n zapNotifier) Error(message string)   { n.logger.Warn(message) }
