package ui

import (
	"errors"
	"fmt"
	"sync"
)

// Default element ids.
const (
	DefaultSendButtonID   = "send-btn"
	DefaultMessageInputID = "message-input"
)

// ErrUnknownElement is returned when an id does not name an element of the
// expected kind.
var ErrUnknownElement = errors.New("unknown element")

// Form holds text inputs and buttons keyed by id.
type Form struct {
	mu       sync.RWMutex
	inputs   map[string]string
	handlers map[string][]func()
}

// NewForm creates a form with one input and one button.
func NewForm(inputID, buttonID string) *Form {
	return &Form{
		inputs:   map[string]string{inputID: ""},
		handlers: map[string][]func(){buttonID: nil},
	}
}

// SetValue replaces the text held by an input.
func (f *Form) SetValue(id, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.inputs[id]; !ok {
		return fmt.Errorf("%w: input %q", ErrUnknownElement, id)
	}
	f.inputs[id] = value
	return nil
}

// Value returns the text held by an input.
func (f *Form) Value(id string) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	v, ok := f.inputs[id]
	if !ok {
		return "", fmt.Errorf("%w: input %q", ErrUnknownElement, id)
	}
	return v, nil
}

// OnClick registers a handler for a button.
func (f *Form) OnClick(id string, fn func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.handlers[id]; !ok {
		return fmt.Errorf("%w: button %q", ErrUnknownElement, id)
	}
	f.handlers[id] = append(f.handlers[id], fn)
	return nil
}

// Click runs the button's handlers synchronously, in registration order.
func (f *Form) Click(id string) error {
	f.mu.RLock()
	handlers, ok := f.handlers[id]
	f.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: button %q", ErrUnknownElement, id)
	}
	for _, fn := range handlers {
		fn()
	}
	return nil
}
