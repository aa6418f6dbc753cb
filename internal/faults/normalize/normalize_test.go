package normalize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panicStringer struct{}

func (panicStringer) String() string {
	panic("hostile String")
}

type panicError struct{}

func (panicError) Error() string {
	panic("hostile Error")
}

func TestSignal_Error(t *testing.T) {
	sig := Signal(errors.New("boom"), Hints{Source: "app.js", Line: 10, Column: 4})
	assert.Equal(t, "boom", sig.Message)
	assert.Equal(t, "app.js", sig.Source)
	assert.Equal(t, 10, sig.Line)
	assert.Equal(t, 4, sig.Column)
}

func TestSignal_Thrown(t *testing.T) {
	sig := Signal(Thrown{Message: "Uncaught ReferenceError: x", Stack: "at main (app.js:1:1)"}, Hints{})
	assert.Equal(t, "ReferenceError: x", sig.Message)
	assert.Equal(t, "at main (app.js:1:1)", sig.Stack)
}

func TestSignal_String(t *testing.T) {
	sig := Signal("plain failure", Hints{})
	assert.Equal(t, "plain failure", sig.Message)
}

func TestSignal_NeverPanics(t *testing.T) {
	inputs := []any{
		nil,
		panicStringer{},
		panicError{},
		struct{ X int }{42},
		[]byte("bytes"),
		3.14,
		"",
		"   ",
	}
	for _, input := range inputs {
		require.NotPanics(t, func() {
			sig := Signal(input, Hints{})
			require.NotEmpty(t, sig.Message)
		})
	}
}

func TestSignal_FallbackMessage(t *testing.T) {
	assert.Equal(t, "Unknown error", Signal(nil, Hints{}).Message)
	assert.Equal(t, "Unknown error", Signal(panicError{}, Hints{}).Message)
	assert.Equal(t, "Unknown error", Signal("", Hints{}).Message)
}

// Repeated wrapper prefixes collapse so rethrown errors dedupe with their
// originals.
func TestMessage_StripsRepeatedPrefixes(t *testing.T) {
	got := Message("Uncaught Uncaught TypeError: x is not a function")
	assert.Equal(t, "typeerror: x is not a function", got)

	assert.Equal(t, Message("x"), Message("Uncaught x"))
	assert.Equal(t, Message("x"), Message("Uncaught (in promise) Uncaught x"))
	assert.Equal(t, Message("x"), Message("uncaught exception: x"))
}

func TestMessage_Idempotent(t *testing.T) {
	cases := []string{
		"Uncaught TypeError: x is not a function",
		"plain",
		"  padded  ",
		"Uncaught (in promise) Error: nope",
	}
	for _, raw := range cases {
		once := Message(raw)
		assert.Equal(t, once, Message(once))
	}
}
