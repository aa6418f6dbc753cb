package ingest

import "github.com/vietddude/faultline/internal/core/domain"

// errorEvent mirrors the browser's global error event payload.
type errorEvent struct {
	Message  string `json:"message"`
	Stack    string `json:"stack"`
	Filename string `json:"filename"`
	Line     int    `json:"lineno"`
	Column   int    `json:"colno"`
}

// rejectionEvent mirrors the unhandled-rejection event payload. Reason is
// whatever the promise rejected with; non-string payloads arrive already
// stringified by the client shim.
type rejectionEvent struct {
	Reason string `json:"reason"`
	Stack  string `json:"stack"`
}

// faultEvent mirrors a fault-boundary callback forwarded by the client.
type faultEvent struct {
	Message        string `json:"message"`
	Stack          string `json:"stack"`
	ComponentStack string `json:"componentStack"`
	Source         string `json:"source"`
	Isolate        bool   `json:"isolate"`
}

// actionJSON is the wire form of a recovery action. Handlers are process
// local and never serialized.
type actionJSON struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Automatic   bool   `json:"automatic"`
}

// eventResponse is the presentation surface returned to the client: what
// happened to the signal and, when it passed the gates, how to recover.
type eventResponse struct {
	Handled          bool         `json:"handled"`
	Status           string       `json:"status"`
	DefaultPrevented bool         `json:"defaultPrevented"`
	Kind             string       `json:"kind,omitempty"`
	Actions          []actionJSON `json:"actions,omitempty"`
	DefaultAction    *actionJSON  `json:"defaultAction,omitempty"`
}

func toActionJSON(action domain.RecoveryAction) actionJSON {
	return actionJSON{
		ID:          action.ID,
		Label:       action.Label,
		Description: action.Description,
		Automatic:   action.Automatic,
	}
}
