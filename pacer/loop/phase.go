package loop

import "fmt"

// Phase is the controller state, named after the platform phase it reacts to.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseEventDispatch
	PhaseIterationBegin
	PhaseFixedUpdate
	PhaseVariableUpdate
	PhaseRenderPending
	PhaseRender
	PhaseIterationEnd
	PhaseExit
)

var phaseNames = [...]string{
	PhaseInit:           "init",
	PhaseEventDispatch:  "event dispatch",
	PhaseIterationBegin: "iteration begin",
	PhaseFixedUpdate:    "fixed update",
	PhaseVariableUpdate: "variable update",
	PhaseRenderPending:  "render pending",
	PhaseRender:         "render",
	PhaseIterationEnd:   "iteration end",
	PhaseExit:           "exit",
}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// flags is the transient per-iteration state. Only minimized survives
// from one iteration to the next.
type flags struct {
	invalidated    bool
	resized        bool
	rendered       bool
	minimized      bool
	suppressResize bool
}

func (f *flags) reset(invalidated bool) {
	f.invalidated = invalidated
	f.resized = false
	f.rendered = false
}
