package platform_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-framepace/pacer/platform"
	"github.com/valerio/go-framepace/pacer/timing"
)

// scriptedSource hands out one batch of events per Pending call.
type scriptedSource struct {
	clock   *timing.ManualClock
	batches [][]platform.Event
	initErr error
	woken   bool

	initialized bool
	closed      int
	waits       []time.Time
}

var _ platform.Source = (*scriptedSource)(nil)

func (s *scriptedSource) Init(config platform.Config) error {
	if s.initErr != nil {
		return s.initErr
	}
	s.initialized = true
	return nil
}

func (s *scriptedSource) Pending() []platform.Event {
	if len(s.batches) == 0 {
		return nil
	}
	batch := s.batches[0]
	s.batches = s.batches[1:]
	return batch
}

func (s *scriptedSource) Wait(ctx context.Context, deadline time.Time) bool {
	s.waits = append(s.waits, deadline)
	if s.woken {
		return true
	}
	s.clock.SleepUntil(deadline)
	return false
}

func (s *scriptedSource) Close() error {
	s.closed++
	return nil
}

type recordingHandler struct {
	events []platform.Event
	script func(ev platform.Event, flow *platform.ControlFlow)
	err    error
}

func (h *recordingHandler) HandleEvent(ev platform.Event, flow *platform.ControlFlow) {
	h.events = append(h.events, ev)
	if h.script != nil {
		h.script(ev, flow)
	}
}

func (h *recordingHandler) Err() error {
	return h.err
}

func (h *recordingHandler) kinds() []platform.Kind {
	kinds := make([]platform.Kind, 0, len(h.events))
	for _, ev := range h.events {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}

func newTestLoop(src *scriptedSource) *platform.EventLoop {
	return platform.NewEventLoop(src, platform.Config{Title: "test", Width: 80, Height: 24},
		platform.WithClock(src.clock),
		platform.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func newClock() *timing.ManualClock {
	return timing.NewManualClock(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestEventLoop_PhaseOrder(t *testing.T) {
	src := &scriptedSource{
		clock: newClock(),
		batches: [][]platform.Event{
			{platform.Resize(80, 24)},
			{platform.KeyPress("a"), platform.KeyRelease("a")},
		},
	}
	loop := newTestLoop(src)

	iteration := 0
	handler := &recordingHandler{}
	handler.script = func(ev platform.Event, flow *platform.ControlFlow) {
		switch ev.Kind {
		case platform.MainEventsCleared:
			loop.RequestRedraw()
		case platform.RedrawEventsCleared:
			iteration++
			if iteration == 2 {
				flow.Exit()
			} else {
				flow.Poll()
			}
		}
	}

	require.NoError(t, loop.Run(context.Background(), handler))

	assert.Equal(t, []platform.Kind{
		platform.NewEvents, platform.Resized, platform.MainEventsCleared,
		platform.RedrawRequested, platform.RedrawEventsCleared,
		platform.NewEvents, platform.Key, platform.Key, platform.MainEventsCleared,
		platform.RedrawRequested, platform.RedrawEventsCleared,
		platform.LoopDestroyed,
	}, handler.kinds())

	assert.Equal(t, platform.CauseInit, handler.events[0].Cause)
	assert.Equal(t, platform.CausePoll, handler.events[5].Cause)
	assert.Equal(t, uint64(2), loop.Iterations())
	assert.Equal(t, platform.Size{Width: 80, Height: 24}, loop.Size())
	assert.Equal(t, 1, src.closed)

	for _, ev := range handler.events {
		assert.False(t, ev.Time.IsZero(), "%s has no timestamp", ev)
	}
}

func TestEventLoop_NoRedrawWithoutRequest(t *testing.T) {
	src := &scriptedSource{clock: newClock()}
	loop := newTestLoop(src)

	handler := &recordingHandler{script: func(ev platform.Event, flow *platform.ControlFlow) {
		if ev.Kind == platform.RedrawEventsCleared {
			flow.Exit()
		}
	}}

	require.NoError(t, loop.Run(context.Background(), handler))
	assert.NotContains(t, handler.kinds(), platform.RedrawRequested)
}

func TestEventLoop_WaitUntilDirective(t *testing.T) {
	src := &scriptedSource{clock: newClock()}
	start := src.clock.Now()
	loop := newTestLoop(src)

	iteration := 0
	handler := &recordingHandler{}
	handler.script = func(ev platform.Event, flow *platform.ControlFlow) {
		if ev.Kind != platform.RedrawEventsCleared {
			return
		}
		iteration++
		if iteration == 4 {
			flow.Exit()
			return
		}
		flow.WaitUntil(start.Add(time.Duration(iteration) * 10 * time.Millisecond))
	}

	require.NoError(t, loop.Run(context.Background(), handler))

	require.Len(t, src.waits, 3)
	for i, deadline := range src.waits {
		assert.Equal(t, start.Add(time.Duration(i+1)*10*time.Millisecond), deadline)
	}

	var causes []platform.StartCause
	for _, ev := range handler.events {
		if ev.Kind == platform.NewEvents {
			causes = append(causes, ev.Cause)
		}
	}
	assert.Equal(t, []platform.StartCause{
		platform.CauseInit,
		platform.CauseResumeTimeReached,
		platform.CauseResumeTimeReached,
		platform.CauseResumeTimeReached,
	}, causes)
}

func TestEventLoop_WaitCancelledByInput(t *testing.T) {
	src := &scriptedSource{clock: newClock(), woken: true}
	loop := newTestLoop(src)

	iteration := 0
	handler := &recordingHandler{}
	handler.script = func(ev platform.Event, flow *platform.ControlFlow) {
		if ev.Kind != platform.RedrawEventsCleared {
			return
		}
		iteration++
		switch iteration {
		case 1:
			flow.WaitUntil(src.clock.Now().Add(time.Second))
		case 2:
			flow.Wait()
		default:
			flow.Exit()
		}
	}

	require.NoError(t, loop.Run(context.Background(), handler))

	var causes []platform.StartCause
	for _, ev := range handler.events {
		if ev.Kind == platform.NewEvents {
			causes = append(causes, ev.Cause)
		}
	}
	assert.Equal(t, []platform.StartCause{
		platform.CauseInit, platform.CauseWaitCancelled, platform.CauseWaitCancelled,
	}, causes)
	assert.True(t, src.waits[1].IsZero(), "Wait passes a zero deadline")
}

func TestEventLoop_ExitStopsIterationEarly(t *testing.T) {
	src := &scriptedSource{
		clock:   newClock(),
		batches: [][]platform.Event{{platform.Close(), platform.KeyPress("a")}},
	}
	loop := newTestLoop(src)

	handler := &recordingHandler{script: func(ev platform.Event, flow *platform.ControlFlow) {
		if ev.Kind == platform.CloseRequested {
			flow.Exit()
		}
	}}

	require.NoError(t, loop.Run(context.Background(), handler))
	assert.Equal(t, []platform.Kind{
		platform.NewEvents, platform.CloseRequested, platform.LoopDestroyed,
	}, handler.kinds())
}

func TestEventLoop_ContextCancelIsCloseRequest(t *testing.T) {
	src := &scriptedSource{clock: newClock()}
	loop := newTestLoop(src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	handler := &recordingHandler{}
	require.NoError(t, loop.Run(ctx, handler))

	assert.Equal(t, []platform.Kind{
		platform.NewEvents, platform.CloseRequested, platform.LoopDestroyed,
	}, handler.kinds())
	assert.Equal(t, 1, src.closed)
}

func TestEventLoop_InitFailure(t *testing.T) {
	initErr := errors.New("no display")
	src := &scriptedSource{clock: newClock(), initErr: initErr}
	loop := newTestLoop(src)

	handler := &recordingHandler{}
	err := loop.Run(context.Background(), handler)

	require.ErrorIs(t, err, initErr)
	assert.Empty(t, handler.events, "no events before the platform is up")
	assert.Equal(t, 0, src.closed)
}

func TestEventLoop_ReturnsHandlerError(t *testing.T) {
	hookErr := errors.New("render failed")
	src := &scriptedSource{clock: newClock()}
	loop := newTestLoop(src)

	handler := &recordingHandler{}
	handler.script = func(ev platform.Event, flow *platform.ControlFlow) {
		if ev.Kind == platform.MainEventsCleared {
			handler.err = hookErr
			flow.Exit()
		}
	}

	err := loop.Run(context.Background(), handler)
	assert.ErrorIs(t, err, hookErr)
	assert.Equal(t, platform.LoopDestroyed, handler.events[len(handler.events)-1].Kind)
}

func TestControlFlow_ExitSticks(t *testing.T) {
	var flow platform.ControlFlow
	assert.Equal(t, "Poll", flow.String())

	deadline := time.Date(2000, 1, 1, 0, 0, 1, 0, time.UTC)
	flow.WaitUntil(deadline)
	assert.Equal(t, platform.ModeWaitUntil, flow.Mode)
	assert.Equal(t, deadline, flow.Deadline)

	flow.Exit()
	flow.Poll()
	flow.WaitUntil(deadline)
	flow.Wait()
	assert.True(t, flow.Exiting())
	assert.Equal(t, "Exit", flow.String())
}

func TestEvent_String(t *testing.T) {
	tests := []struct {
		event    platform.Event
		expected string
	}{
		{platform.Event{Kind: platform.NewEvents, Cause: platform.CauseWaitCancelled}, "NewEvents(WaitCancelled)"},
		{platform.KeyPress("Escape"), "Key(Escape pressed)"},
		{platform.KeyRelease("a"), "Key(a released)"},
		{platform.Resize(640, 480), "Resized(640x480)"},
		{platform.Close(), "CloseRequested"},
		{platform.Event{Kind: platform.Kind(99)}, "Kind(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.String())
		})
	}
}

func TestSize_Empty(t *testing.T) {
	assert.True(t, platform.Size{}.Empty())
	assert.True(t, platform.Size{Width: 10}.Empty())
	assert.False(t, platform.Size{Width: 1, Height: 1}.Empty())
	assert.True(t, platform.Resized.IsInput())
	assert.False(t, platform.MainEventsCleared.IsInput())
}
