// Package normalize converts any thrown value into a canonical ErrorSignal.
// Everything downstream of the capture entry points only ever sees the
// canonical form produced here.
package normalize

import (
	"fmt"
	"strings"

	"github.com/vietddude/faultline/internal/core/domain"
)

// fallbackMessage is used when the thrown value yields nothing usable.
const fallbackMessage = "Unknown error"

// Wrapper prefixes the platform prepends to rethrown or surfaced errors.
// Stripped greedily so "Uncaught Uncaught X" and "X" normalize identically.
var wrapperPrefixes = []string{
	"uncaught (in promise) ",
	"uncaught exception: ",
	"uncaught ",
}

// Hints carry location metadata from the originating platform event.
type Hints struct {
	Source string
	Line   int
	Column int
}

// Thrown mirrors a structured error captured on a client, where message and
// stack arrive as plain strings.
type Thrown struct {
	Message string
	Stack   string
}

func (t Thrown) Error() string {
	return t.Message
}

// Signal converts input into an ErrorSignal. It never panics: values with
// hostile Error or String methods degrade to the fallback message.
func Signal(input any, hints Hints) domain.ErrorSignal {
	sig := domain.ErrorSignal{
		Message: fallbackMessage,
		Source:  hints.Source,
		Line:    hints.Line,
		Column:  hints.Column,
	}

	switch v := input.(type) {
	case nil:
	case Thrown:
		sig.Message = cleanMessage(v.Message)
		sig.Stack = v.Stack
	case *Thrown:
		if v != nil {
			sig.Message = cleanMessage(v.Message)
			sig.Stack = v.Stack
		}
	case error:
		sig.Message = cleanMessage(safeString(func() string { return v.Error() }))
	case string:
		sig.Message = cleanMessage(v)
	case fmt.Stringer:
		sig.Message = cleanMessage(safeString(v.String))
	default:
		sig.Message = cleanMessage(safeString(func() string { return fmt.Sprintf("%v", v) }))
	}

	if sig.Message == "" {
		sig.Message = fallbackMessage
	}
	return sig
}

// Message returns the fully normalized form of a raw message: wrapper
// prefixes stripped, whitespace trimmed, case folded. It is idempotent.
func Message(raw string) string {
	return strings.ToLower(cleanMessage(raw))
}

// cleanMessage strips wrapper prefixes and trims, preserving case.
func cleanMessage(raw string) string {
	msg := strings.TrimSpace(raw)
	for {
		stripped := false
		lower := strings.ToLower(msg)
		for _, prefix := range wrapperPrefixes {
			if strings.HasPrefix(lower, prefix) {
				msg = strings.TrimSpace(msg[len(prefix):])
				stripped = true
				break
			}
		}
		if !stripped {
			return msg
		}
	}
}

// safeString invokes fn, converting a panic into the fallback message.
func safeString(fn func() string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = fallbackMessage
		}
	}()
	return fn()
}
