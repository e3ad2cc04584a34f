package notify

import "encoding/json"

// Message types understood by the broadcast server.
const (
	TypeRegister   = "register"
	TypeRegistered = "registered"
	TypeScreenshot = "screenshot"
	TypeError      = "error"
)

// ClientTypeShooter identifies AirShot clients to the server.
const ClientTypeShooter = "shooter"

// Message is the envelope for all websocket messages.
type Message struct {
	Type       string          `json:"type"`
	ID         string          `json:"id,omitempty"`
	ClientType string          `json:"clientType,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Msg        string          `json:"message,omitempty"`
	Timestamp  int64           `json:"timestamp,omitempty"`
}
