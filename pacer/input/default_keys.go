package input

// DefaultKeyMap provides default key mappings that work across platforms.
// Key names are the ones platforms put in platform.Event.Key.
var DefaultKeyMap = map[string]Action{
	// Pacing controls
	"+": FrameRateUp,
	"=": FrameRateUp, // Alternative without shift
	"-": FrameRateDown,
	"_": FrameRateDown, // Alternative with shift
	"u": FrameRateUnlimited,

	// Demo controls
	"p":     PauseToggle,
	"Space": PauseToggle, // Alternative key
	"h":     HUDToggle,
	"F1":    HUDToggle,
	"b":     SpawnBurst,
	"Enter": SpawnBurst,

	// Debug controls
	"F9":  LogLevelIncrease,
	"F10": LogLevelDecrease,

	"q":      Quit,
	"Escape": Quit,
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
