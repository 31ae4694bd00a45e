// Package protocol is the serial-link collaborator surface consumed by the
// root task: callback registration for inbound messages and a push API for
// outbound state. Callbacks run on the transport's goroutine, so handlers
// must only write to mailboxes, never into another task's state.
package protocol

import (
	"sync"

	"smartknob-go/errcode"
	"smartknob-go/proto"
	"smartknob-go/types"
)

// TagCallback handles one inbound payload variant.
type TagCallback func(proto.ToSmartknob)

// CommandCallback handles one payload-free command.
type CommandCallback func()

// Sender is the outbound half, implemented per transport.
type Sender interface {
	SendState(types.KnobState)
	SendKnobInfo(types.Knob)
}

// Registry routes inbound messages to registered callbacks. It is safe for
// registration and dispatch to happen on different goroutines.
type Registry struct {
	mu       sync.Mutex
	tags     map[proto.Tag]TagCallback
	commands map[proto.Command]CommandCallback
}

func NewRegistry() *Registry {
	return &Registry{
		tags:     map[proto.Tag]TagCallback{},
		commands: map[proto.Command]CommandCallback{},
	}
}

// RegisterTagCallback binds a handler for a payload variant. The last
// registration for a tag wins.
func (r *Registry) RegisterTagCallback(tag proto.Tag, cb TagCallback) {
	r.mu.Lock()
	r.tags[tag] = cb
	r.mu.Unlock()
}

// RegisterCommandCallback binds a handler for a command.
func (r *Registry) RegisterCommandCallback(cmd proto.Command, cb CommandCallback) {
	r.mu.Lock()
	r.commands[cmd] = cb
	r.mu.Unlock()
}

// Dispatch routes one inbound message. Unknown tags and commands are not
// fatal; the message is dropped and an error code returned for logging.
func (r *Registry) Dispatch(msg proto.ToSmartknob) error {
	if msg.Tag == proto.TagCommand {
		r.mu.Lock()
		cb := r.commands[msg.Command]
		r.mu.Unlock()
		if cb == nil {
			return errcode.UnknownCommand
		}
		cb()
		return nil
	}

	r.mu.Lock()
	cb := r.tags[msg.Tag]
	r.mu.Unlock()
	if cb == nil {
		return errcode.UnknownTag
	}
	cb(msg)
	return nil
}
