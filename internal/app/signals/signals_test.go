package signals

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingBumper struct {
	bumps int
	err   error
}

func (b *countingBumper) Bump(ctx context.Context) error {
	b.bumps++
	return b.err
}

func TestDispatcher_Send(t *testing.T) {
	t.Run("Should deliver events to handlers in registration order", func(t *testing.T) {
		d := NewDispatcher()
		var order []string
		d.Connect(func(ctx context.Context, e Event) {
			order = append(order, "first")
		}, KindCourse)
		d.Connect(func(ctx context.Context, e Event) {
			order = append(order, "second")
		}, KindCourse)

		d.Send(context.Background(), Event{Kind: KindCourse, Action: ActionSaved})

		assert.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("Should not deliver events of other kinds", func(t *testing.T) {
		d := NewDispatcher()
		called := false
		d.Connect(func(ctx context.Context, e Event) {
			called = true
		}, KindSeat)

		d.Send(context.Background(), Event{Kind: KindCourse, Action: ActionSaved})

		assert.False(t, called)
	})

	t.Run("Should drop events on a nil dispatcher", func(t *testing.T) {
		var d *Dispatcher
		assert.NotPanics(t, func() {
			d.Send(context.Background(), Event{Kind: KindCourse, Action: ActionSaved})
		})
	})

	t.Run("Should allow a handler to re-enter the dispatcher", func(t *testing.T) {
		d := NewDispatcher()
		var seatEvents int
		d.Connect(func(ctx context.Context, e Event) {
			d.Send(ctx, Event{Kind: KindSeat, Action: ActionSaved, Created: true})
		}, KindMembership)
		d.Connect(func(ctx context.Context, e Event) {
			seatEvents++
		}, KindSeat)

		d.Send(context.Background(), Event{Kind: KindMembership, Action: ActionSaved, Created: true})

		assert.Equal(t, 1, seatEvents)
	})
}

func TestRegisterCacheInvalidation(t *testing.T) {
	t.Run("Should bump on every catalog kind", func(t *testing.T) {
		d := NewDispatcher()
		bumper := &countingBumper{}
		RegisterCacheInvalidation(d, bumper)

		for _, kind := range CatalogKinds {
			d.Send(context.Background(), Event{Kind: kind, Action: ActionSaved})
		}

		assert.Equal(t, len(CatalogKinds), bumper.bumps)
	})

	t.Run("Should not bump on switch mutations", func(t *testing.T) {
		d := NewDispatcher()
		bumper := &countingBumper{}
		RegisterCacheInvalidation(d, bumper)

		d.Send(context.Background(), Event{Kind: KindSwitch, Action: ActionSaved})

		assert.Zero(t, bumper.bumps)
	})

	t.Run("Should bump on deletes as well as saves", func(t *testing.T) {
		d := NewDispatcher()
		bumper := &countingBumper{}
		RegisterCacheInvalidation(d, bumper)

		d.Send(context.Background(), Event{Kind: KindCourse, Action: ActionDeleted})

		assert.Equal(t, 1, bumper.bumps)
	})

	t.Run("Should swallow bump errors", func(t *testing.T) {
		d := NewDispatcher()
		bumper := &countingBumper{err: errors.New("redis down")}
		RegisterCacheInvalidation(d, bumper)

		assert.NotPanics(t, func() {
			d.Send(context.Background(), Event{Kind: KindCourse, Action: ActionSaved})
		})
	})
}
