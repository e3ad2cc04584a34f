package notify

import (
	"context"
	"errors"
	"time"
)

var (
	ErrStatus      = errors.New("unexpected notification response status")
	ErrUnsupported = errors.New("notifier not supported on this platform")
	ErrRejected    = errors.New("notification rejected by server")
)

// Event describes a finished upload.
type Event struct {
	URL  string    `json:"url"`
	Key  string    `json:"key,omitempty"`
	Path string    `json:"path,omitempty"`
	Time time.Time `json:"time"`
}

// Notifier announces a hosted screenshot.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// Multi fans an event out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, e Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
