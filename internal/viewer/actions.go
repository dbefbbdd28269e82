package viewer

// Action is a discrete viewer command produced by a key press.
type Action int

const (
	ActionNone Action = iota

	// Camera
	ActionMoveForward
	ActionMoveBack
	ActionMoveLeft
	ActionMoveRight
	ActionTurnLeft
	ActionTurnRight
	ActionLookUp
	ActionLookDown

	// Model
	ActionModelYawLeft
	ActionModelYawRight
	ActionModelPitchUp
	ActionModelPitchDown
	ActionModelRollLeft
	ActionModelRollRight

	// View
	ActionToggleSpin
	ActionCycleShader
	ActionToggleHUD
	ActionToggleGrid
	ActionReset
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:           "none",
	ActionMoveForward:    "move-forward",
	ActionMoveBack:       "move-back",
	ActionMoveLeft:       "move-left",
	ActionMoveRight:      "move-right",
	ActionTurnLeft:       "turn-left",
	ActionTurnRight:      "turn-right",
	ActionLookUp:         "look-up",
	ActionLookDown:       "look-down",
	ActionModelYawLeft:   "model-yaw-left",
	ActionModelYawRight:  "model-yaw-right",
	ActionModelPitchUp:   "model-pitch-up",
	ActionModelPitchDown: "model-pitch-down",
	ActionModelRollLeft:  "model-roll-left",
	ActionModelRollRight: "model-roll-right",
	ActionToggleSpin:     "toggle-spin",
	ActionCycleShader:    "cycle-shader",
	ActionToggleHUD:      "toggle-hud",
	ActionToggleGrid:     "toggle-grid",
	ActionReset:          "reset",
	ActionQuit:           "quit",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// keyBindings maps key names, as spelled by both terminal and window
// front ends, to actions.
var keyBindings = map[string]Action{
	"w":       ActionMoveForward,
	"s":       ActionMoveBack,
	"a":       ActionMoveLeft,
	"d":       ActionMoveRight,
	"left":    ActionTurnLeft,
	"right":   ActionTurnRight,
	"up":      ActionLookUp,
	"down":    ActionLookDown,
	"j":       ActionModelYawLeft,
	"l":       ActionModelYawRight,
	"i":       ActionModelPitchUp,
	"k":       ActionModelPitchDown,
	"u":       ActionModelRollLeft,
	"o":       ActionModelRollRight,
	"space":   ActionToggleSpin,
	"tab":     ActionCycleShader,
	"?":       ActionToggleHUD,
	"shift+/": ActionToggleHUD,
	"g":       ActionToggleGrid,
	"r":       ActionReset,
	"q":       ActionQuit,
	"escape":  ActionQuit,
	"ctrl+c":  ActionQuit,
}

// KeyAction returns the action bound to a key name, or ActionNone.
func KeyAction(key string) Action {
	return keyBindings[key]
}

// KeyNames returns every bound key name.
func KeyNames() []string {
	names := make([]string, 0, len(keyBindings))
	for k := range keyBindings {
		names = append(names, k)
	}
	return names
}
