package platform

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/valerio/go-framepace/pacer/timing"
)

// EventLoop turns a Source into the phase-tagged event stream:
//
//	NewEvents(cause), input..., MainEventsCleared, [RedrawRequested],
//	RedrawEventsCleared, then the directive is applied.
//
// LoopDestroyed is always the last event once Init succeeded.
type EventLoop struct {
	source Source
	config Config
	clock  timing.Clock
	logger *slog.Logger

	redraw     bool
	size       Size
	iterations uint64
}

type EventLoopInitializer = func(*EventLoop)

func WithClock(clock timing.Clock) EventLoopInitializer {
	return func(l *EventLoop) {
		l.clock = clock
	}
}

func WithLogger(logger *slog.Logger) EventLoopInitializer {
	return func(l *EventLoop) {
		l.logger = logger
	}
}

func NewEventLoop(source Source, config Config, initializers ...EventLoopInitializer) *EventLoop {
	l := &EventLoop{
		source: source,
		config: config,
		clock:  timing.SystemClock{},
		logger: slog.Default(),
		size:   Size{Width: config.Width, Height: config.Height},
	}

	for _, init := range initializers {
		init(l)
	}

	return l
}

// RequestRedraw queues a RedrawRequested event for the current iteration.
func (l *EventLoop) RequestRedraw() {
	l.redraw = true
}

// Size is the last size reported by the source.
func (l *EventLoop) Size() Size {
	return l.size
}

func (l *EventLoop) Iterations() uint64 {
	return l.iterations
}

// Run drives handler until it sets the exit directive or ctx is cancelled.
// If handler exposes Err() error, that error is returned.
func (l *EventLoop) Run(ctx context.Context, handler Handler) (err error) {
	if err := l.source.Init(l.config); err != nil {
		return fmt.Errorf("platform init: %w", err)
	}

	flow := &ControlFlow{}

	defer func() {
		l.emit(handler, Event{Kind: LoopDestroyed}, flow)

		if cerr := l.source.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("platform close: %w", cerr)
		}

		if h, ok := handler.(interface{ Err() error }); ok && err == nil {
			err = h.Err()
		}

		l.logger.Debug("Event loop finished", "iterations", l.iterations)
	}()

	cause := CauseInit
	for {
		l.iterate(ctx, handler, cause, flow)

		switch flow.Mode {
		case ModeExit:
			return nil
		case ModePoll:
			cause = CausePoll
		case ModeWaitUntil:
			if l.source.Wait(ctx, flow.Deadline) {
				cause = CauseWaitCancelled
			} else {
				cause = CauseResumeTimeReached
			}
		case ModeWait:
			l.source.Wait(ctx, time.Time{})
			cause = CauseWaitCancelled
		}
	}
}

func (l *EventLoop) iterate(ctx context.Context, handler Handler, cause StartCause, flow *ControlFlow) {
	l.iterations++
	l.emit(handler, Event{Kind: NewEvents, Cause: cause}, flow)

	if ctx.Err() != nil {
		l.emit(handler, Event{Kind: CloseRequested}, flow)
		flow.Exit()
		return
	}

	for _, ev := range l.source.Pending() {
		if flow.Exiting() {
			return
		}
		if ev.Kind == Resized {
			l.size = ev.Size
		}
		l.emit(handler, ev, flow)
	}

	if flow.Exiting() {
		return
	}
	l.emit(handler, Event{Kind: MainEventsCleared}, flow)

	if flow.Exiting() {
		return
	}
	if l.redraw {
		l.redraw = false
		l.emit(handler, Event{Kind: RedrawRequested}, flow)
	}

	l.emit(handler, Event{Kind: RedrawEventsCleared}, flow)
}

func (l *EventLoop) emit(handler Handler, ev Event, flow *ControlFlow) {
	if ev.Time.IsZero() {
		ev.Time = l.clock.Now()
	}
	handler.HandleEvent(ev, flow)
}
