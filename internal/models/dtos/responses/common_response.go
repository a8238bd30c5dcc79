package responses

import "time"

// StatusEnvelope wraps every status API reply except /healthCheck and
// /metrics. RequestID echoes the X-Request-ID the middleware assigned.
type StatusEnvelope[T any] struct {
	Status    string    `json:"status"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
	Data      *T        `json:"data,omitempty"`
}
