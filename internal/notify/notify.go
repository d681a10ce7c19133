// Package notify tells the user when a session reaches its target.
package notify

import (
	"sync"

	"fyne.io/fyne/v2"

	"pomobar/internal/core/timefmt"
	"pomobar/internal/core/timer"
)

const notificationTitle = "Timer"

// Sender delivers desktop notifications. fyne.App satisfies it.
type Sender interface {
	SendNotification(notification *fyne.Notification)
}

// Notifier is a bridge surface that sends a notification on completion.
type Notifier struct {
	sender Sender

	mu      sync.Mutex
	enabled bool
}

// New creates a Notifier sending through sender.
func New(sender Sender, enabled bool) *Notifier {
	return &Notifier{sender: sender, enabled: enabled}
}

// SetEnabled turns completion notifications on or off.
func (notifier *Notifier) SetEnabled(enabled bool) {
	notifier.mu.Lock()
	notifier.enabled = enabled
	notifier.mu.Unlock()
}

// Enabled reports whether completion notifications are sent.
func (notifier *Notifier) Enabled() bool {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return notifier.enabled
}

// HandleTick implements bridge.Surface.
func (notifier *Notifier) HandleTick(timer.Snapshot) {}

// HandleStateChange implements bridge.Surface.
func (notifier *Notifier) HandleStateChange(timer.StateChange, timer.Snapshot) {}

// HandleComplete sends the time-is-up notification.
func (notifier *Notifier) HandleComplete(completion timer.Completion) {
	if notifier.sender == nil || !notifier.Enabled() {
		return
	}
	notifier.sender.SendNotification(Completed(completion))
}

// Completed builds the notification for a finished session.
func Completed(completion timer.Completion) *fyne.Notification {
	body := timefmt.Format(completion.Duration, timefmt.Ceil) + " time is up!"
	return fyne.NewNotification(notificationTitle, body)
}
