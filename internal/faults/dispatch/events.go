package dispatch

// Event is the capability the dispatcher needs from an originating platform
// event: suppressing the platform's own default handling of the raw error.
type Event interface {
	PreventDefault()
}

// FaultInfo describes a fault-boundary callback: the error was already
// caught by the render cycle, so there is no raw platform event to cancel.
type FaultInfo struct {
	ComponentStack string
	Isolate        bool
	Source         string
}

// Origin names the entry point a signal arrived through.
type Origin string

const (
	OriginGlobalError Origin = "global_error"
	OriginRejection   Origin = "unhandled_rejection"
	OriginBoundary    Origin = "fault_boundary"
)
