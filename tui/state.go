package tui

// View is a kiosk screen.
type View int

const (
	ViewSelect View = iota // employee picker
	ViewAction             // clock in / clock out for the selected employee
)

func (v View) String() string {
	switch v {
	case ViewSelect:
		return "select"
	case ViewAction:
		return "action"
	}
	return "unknown"
}

// Event drives a view change.
type Event int

const (
	EventSelectEmployee Event = iota
	EventBack
)

// transitions lists every legal view change. Anything else is ignored.
var transitions = map[View]map[Event]View{
	ViewSelect: {EventSelectEmployee: ViewAction},
	ViewAction: {EventBack: ViewSelect},
}

// Transition returns the view reached from v on e, and false when the
// event does not apply to v (v is then returned unchanged).
func Transition(v View, e Event) (View, bool) {
	next, ok := transitions[v][e]
	if !ok {
		return v, false
	}
	return next, true
}
