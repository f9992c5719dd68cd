package realtime

import "encoding/json"

// Event names pushed over the socket. Clients subscribe to these by name.
const (
	EventOnlineUsers     = "getOnlineUsers"
	EventNewMessage      = "newMessage"
	EventNewGroupMessage = "newGroupMessage"
)

// Envelope is the wire frame for every outbound push: an event name plus an
// opaque payload. The payload is whatever the caller already persisted; the
// realtime layer never inspects it.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Encode serializes the envelope to its JSON wire form.
func (e Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}
