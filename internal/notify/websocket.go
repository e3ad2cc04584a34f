package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket publishes events to a websocket broadcast server. It registers
// under ClientID, waits for the server's ack, sends one screenshot message
// and closes.
type WebSocket struct {
	URL      string
	ClientID string
	Timeout  time.Duration
	Dialer   *websocket.Dialer
}

func NewWebSocket(url, clientID string, timeout time.Duration) *WebSocket {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebSocket{URL: url, ClientID: clientID, Timeout: timeout, Dialer: websocket.DefaultDialer}
}

func (w *WebSocket) Notify(ctx context.Context, e Event) error {
	ctx, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()

	dialer := w.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, _, err := dialer.DialContext(ctx, w.URL, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetWriteDeadline(deadline)
		conn.SetReadDeadline(deadline)
	}

	err = conn.WriteJSON(Message{
		Type:       TypeRegister,
		ID:         w.ClientID,
		ClientType: ClientTypeShooter,
	})
	if err != nil {
		return fmt.Errorf("websocket register: %w", err)
	}
	if err := awaitRegistered(conn); err != nil {
		return err
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	err = conn.WriteJSON(Message{
		Type:      TypeScreenshot,
		ID:        w.ClientID,
		Payload:   payload,
		Timestamp: e.Time.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("websocket send: %w", err)
	}

	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteMessage(websocket.CloseMessage, closeMsg)
	return nil
}

// awaitRegistered reads the server's reply to register. An error reply
// carries the server's reason.
func awaitRegistered(conn *websocket.Conn) error {
	var reply Message
	if err := conn.ReadJSON(&reply); err != nil {
		return fmt.Errorf("websocket register ack: %w", err)
	}
	switch reply.Type {
	case TypeRegistered:
		return nil
	case TypeError:
		return fmt.Errorf("%w: %s", ErrRejected, reply.Msg)
	}
	return fmt.Errorf("%w: unexpected %q reply to register", ErrRejected, reply.Type)
}
