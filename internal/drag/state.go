package drag

// Phase represents the current phase of a drag gesture
type Phase int

const (
	// PhaseIdle means no window is being dragged
	PhaseIdle Phase = iota
	// PhaseDragging means a window follows the pointer
	PhaseDragging
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Target identifies which part of a window received a pointer-down.
type Target int

const (
	TargetBody Target = iota
	TargetTitleBar
	// TargetControl is a close or minimize button inside the title bar.
	TargetControl
)

// Point is a pointer position in host units.
type Point struct {
	X int
	Y int
}

// State holds the current drag gesture
type State struct {
	Phase    Phase
	WindowID string
	OffsetX  int // pointer X minus window X at grab time
	OffsetY  int // pointer Y minus window Y at grab time

	pending      Point
	hasPending   bool
	framePending bool
	unsubscribe  func()
}

// Reset returns the state to idle
func (s *State) Reset() {
	s.Phase = PhaseIdle
	s.WindowID = ""
	s.OffsetX = 0
	s.OffsetY = 0
	s.pending = Point{}
	s.hasPending = false
	s.framePending = false
	s.unsubscribe = nil
}
