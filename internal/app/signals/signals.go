// Package signals delivers synchronous model-mutation events. Repositories
// publish an event after every successful write; handlers registered at
// bootstrap react to them (API cache invalidation, masters seat side
// effects). Delivery is in-process and on the caller's goroutine, so a
// handler that writes through a repository re-enters the dispatcher.
package signals

import (
	"context"
	"sync"
)

// Action distinguishes saves from deletes.
type Action string

const (
	ActionSaved   Action = "saved"
	ActionDeleted Action = "deleted"
)

// Kind identifies the model a mutation touched.
type Kind string

const (
	KindPartner     Kind = "partner"
	KindCourse      Kind = "course"
	KindCourseRun   Kind = "course_run"
	KindSeat        Kind = "seat"
	KindProgramType Kind = "program_type"
	KindProgram     Kind = "program"
	KindCurriculum  Kind = "curriculum"
	KindMembership  Kind = "curriculum_course_membership"
	KindSwitch      Kind = "switch"
)

// CatalogKinds lists the models whose mutations invalidate the API cache.
// Switches deliberately stay out: toggling a flag is not a catalog change.
var CatalogKinds = []Kind{
	KindPartner,
	KindCourse,
	KindCourseRun,
	KindSeat,
	KindProgramType,
	KindProgram,
	KindCurriculum,
	KindMembership,
}

// Event describes one model mutation.
type Event struct {
	Kind   Kind
	Action Action
	// Created is true when a save inserted a new row.
	Created bool
	// Instance is the mutated model, when the repository has it on hand.
	Instance interface{}
}

// Handler reacts to an event. Handlers must not return errors; failures are
// theirs to log.
type Handler func(ctx context.Context, e Event)

// Dispatcher routes events to connected handlers in registration order.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Kind][]Handler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[Kind][]Handler),
	}
}

// Connect registers a handler for the given kinds.
func (d *Dispatcher) Connect(h Handler, kinds ...Kind) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, k := range kinds {
		d.handlers[k] = append(d.handlers[k], h)
	}
}

// Send delivers an event to every handler connected to its kind. A nil
// dispatcher drops events, so repositories used outside the signal graph
// (seeding, one-off scripts) can pass nil.
func (d *Dispatcher) Send(ctx context.Context, e Event) {
	if d == nil {
		return
	}
	d.mu.RLock()
	handlers := d.handlers[e.Kind]
	d.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, e)
	}
}

