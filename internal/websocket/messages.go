package websocket

// ClientInMessage is the envelope for messages from client to server.
type ClientInMessage struct {
	Type          string         `json:"type"`
	CorrelationID string         `json:"correlation_id,omitempty"`
	Payload       map[string]any `json:"payload,omitempty"`
}

// ServerEnvelope is the envelope for messages from server to client.
// Type is "event", "state", "view" or "error".
type ServerEnvelope struct {
	Type          string         `json:"type"`
	Event         string         `json:"event,omitempty"`
	CorrelationID string         `json:"correlation_id,omitempty"`
	Payload       map[string]any `json:"payload,omitempty"`
}

// Client message types.
const (
	ClientMessageTypeVote      = "vote"
	ClientMessageTypeAction    = "action"
	ClientMessageTypeSyncState = "sync_state"
)

// Server envelope types.
const (
	ServerTypeEvent = "event"
	ServerTypeState = "state"
	ServerTypeView  = "view"
	ServerTypeError = "error"
)

// MaxClientMessageTypeLength limits the "type" field.
const MaxClientMessageTypeLength = 64

// ValidClientMessageTypes are the only accepted values of ClientInMessage.Type.
var ValidClientMessageTypes = map[string]bool{
	ClientMessageTypeVote:      true,
	ClientMessageTypeAction:    true,
	ClientMessageTypeSyncState: true,
}
