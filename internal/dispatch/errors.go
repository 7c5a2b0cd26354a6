package dispatch

import "encoding/json"

// Kind classifies dispatch failures.
type Kind string

const (
	// KindUnknownTool: the tool name is not registered.
	KindUnknownTool Kind = "UnknownTool"
	// KindValidationFailure: a required parameter is missing or malformed.
	KindValidationFailure Kind = "ValidationFailure"
	// KindUpstreamFailure: the analytics API returned a non-success status
	// or could not be reached.
	KindUpstreamFailure Kind = "UpstreamFailure"
)

// Error is the structured failure carried inside a ResponseEnvelope. It is
// a payload, not a transport fault; callers always receive a normal
// envelope.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// errorBody is the uniform error payload shape.
type errorBody struct {
	Err     bool   `json:"error"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Payload renders the error as the envelope's JSON payload.
func (e *Error) Payload() json.RawMessage {
	data, err := json.Marshal(errorBody{Err: true, Kind: e.Kind, Message: e.Message})
	if err != nil {
		return json.RawMessage(`{"error":true,"message":"internal error"}`)
	}
	return data
}
