package input

import (
	"log/slog"
	"time"

	"github.com/valerio/go-framepace/pacer/platform"
)

// DefaultDebounce is the minimum time between two presses of the same action.
const DefaultDebounce = 150 * time.Millisecond

// Manager translates key events into actions and runs their callbacks.
// Presses are debounced per action using the event timestamps, so terminal
// key repeat does not fire an action many times per frame.
type Manager struct {
	keys          map[string]Action
	handlers      map[Action][]func()
	lastTriggered map[Action]time.Time
	debounce      time.Duration
}

// NewManager starts from DefaultKeyMap.
func NewManager() *Manager {
	keys := make(map[string]Action, len(DefaultKeyMap))
	for key, act := range DefaultKeyMap {
		keys[key] = act
	}

	return &Manager{
		keys:          keys,
		handlers:      make(map[Action][]func()),
		lastTriggered: make(map[Action]time.Time),
		debounce:      DefaultDebounce,
	}
}

// SetDebounce changes the debounce window. 0 disables debouncing.
func (m *Manager) SetDebounce(d time.Duration) {
	m.debounce = d
}

// Bind maps key to act, replacing any previous binding. ActionNone unbinds it.
func (m *Manager) Bind(key string, act Action) {
	if act == ActionNone {
		delete(m.keys, key)
		return
	}
	m.keys[key] = act
}

// Lookup returns the action bound to key.
func (m *Manager) Lookup(key string) (Action, bool) {
	act, ok := m.keys[key]
	return act, ok
}

// On registers a callback for act.
func (m *Manager) On(act Action, callback func()) {
	m.handlers[act] = append(m.handlers[act], callback)
}

// Handle runs the callbacks for a key press event. It returns the action
// that fired, or ActionNone when the event was not a bound press or was
// debounced.
func (m *Manager) Handle(ev platform.Event) Action {
	if ev.Kind != platform.Key || !ev.Pressed {
		return ActionNone
	}

	act, ok := m.keys[ev.Key]
	if !ok {
		return ActionNone
	}

	if last, seen := m.lastTriggered[act]; seen && m.debounce > 0 && ev.Time.Sub(last) < m.debounce {
		return ActionNone
	}
	m.lastTriggered[act] = ev.Time

	slog.Debug("Input action", "key", ev.Key, "action", act)
	for _, callback := range m.handlers[act] {
		callback()
	}
	return act
}
