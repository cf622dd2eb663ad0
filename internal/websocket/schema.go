package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError      Event = "error"
	EventPong       Event = "pong"
	EventSubscribed Event = "subscribed"
)

// SubscribedResponse confirms the stream is attached. CourseID is zero for
// the all-courses feed.
type SubscribedResponse struct {
	Event    Event  `json:"event"`
	Channel  string `json:"channel"`
	CourseID int    `json:"course_id,omitempty"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
