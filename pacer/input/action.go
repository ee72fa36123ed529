package input

import "fmt"

// Action is a user intent decoupled from the key that produced it.
type Action int

const (
	ActionNone Action = iota

	// Pacing controls
	FrameRateUp
	FrameRateDown
	FrameRateUnlimited

	// Demo controls
	PauseToggle
	HUDToggle
	SpawnBurst

	// Diagnostics
	LogLevelIncrease
	LogLevelDecrease

	Quit
)

// Info describes an action for help screens and logs.
type Info struct {
	Name        string
	Description string
}

var actionInfo = map[Action]Info{
	FrameRateUp:        {"fps-up", "Raise the target frame rate"},
	FrameRateDown:      {"fps-down", "Lower the target frame rate"},
	FrameRateUnlimited: {"fps-unlimited", "Toggle unlimited frame rate"},
	PauseToggle:        {"pause", "Freeze or resume particle motion"},
	HUDToggle:          {"hud", "Show or hide the stats overlay"},
	SpawnBurst:         {"burst", "Spawn a burst of particles"},
	LogLevelIncrease:   {"log-more", "Show more verbose logs"},
	LogLevelDecrease:   {"log-less", "Show less verbose logs"},
	Quit:               {"quit", "Exit the loop"},
}

// GetInfo returns the description of act, or a placeholder for unknown actions.
func GetInfo(act Action) Info {
	if info, ok := actionInfo[act]; ok {
		return info
	}
	return Info{Name: fmt.Sprintf("action-%d", int(act)), Description: "Unknown action"}
}

func (a Action) String() string {
	return GetInfo(a).Name
}
