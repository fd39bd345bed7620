package manager

import (
	"time"
)

// Severity of a notification.
type Severity int

const (
	Success Severity = iota
	Info
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "unknown"
}

// Notification is a transient message for the user.
type Notification struct {
	Text     string
	Severity Severity
}

// Notifier shows feedback. Alert is blocking and reserved for photo
// deletion failures.
type Notifier interface {
	Notify(n Notification)
	Alert(text string)
}

// Scheduler runs fn once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// RealScheduler uses time.AfterFunc.
var RealScheduler Scheduler = timeScheduler{}
