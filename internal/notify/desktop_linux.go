//go:build linux

package notify

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsName = "org.freedesktop.Notifications"
	notificationsPath = "/org/freedesktop/Notifications"
	notifyCallName    = notificationsName + ".Notify"
)

// Desktop shows a freedesktop notification on the session bus.
type Desktop struct {
	AppName string
	// ExpireMs is the display time; -1 leaves it to the server.
	ExpireMs int32
}

func NewDesktop() *Desktop {
	return &Desktop{AppName: "AirShot", ExpireMs: -1}
}

func (d *Desktop) Notify(ctx context.Context, e Event) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("dbus session bus: %w", err)
	}

	obj := conn.Object(notificationsName, dbus.ObjectPath(notificationsPath))
	call := obj.CallWithContext(ctx, notifyCallName, 0,
		d.AppName,
		uint32(0),
		"camera-photo",
		"Screenshot uploaded",
		e.URL,
		[]string{},
		map[string]dbus.Variant{},
		d.ExpireMs,
	)
	if call.Err != nil {
		return fmt.Errorf("dbus notify: %w", call.Err)
	}
	return nil
}
