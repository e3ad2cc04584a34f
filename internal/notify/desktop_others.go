//go:build !linux

package notify

import "context"

// Desktop notifications need the freedesktop session bus.
type Desktop struct {
	AppName  string
	ExpireMs int32
}

func NewDesktop() *Desktop {
	return &Desktop{AppName: "AirShot", ExpireMs: -1}
}

func (d *Desktop) Notify(ctx context.Context, e Event) error {
	return ErrUnsupported
}
