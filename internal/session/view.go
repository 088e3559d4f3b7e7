package session

import "fmt"

// View is the screen the root view selector renders.
type View int

const (
	ViewLanding View = iota
	ViewLogin
	ViewSignup
	ViewDashboard
)

var viewNames = map[View]string{
	ViewLanding:   "landing",
	ViewLogin:     "login",
	ViewSignup:    "signup",
	ViewDashboard: "dashboard",
}

func (v View) String() string {
	if name, ok := viewNames[v]; ok {
		return name
	}
	return fmt.Sprintf("View(%d)", int(v))
}

// ParseView maps a view name from a URL back to a View.
func ParseView(name string) (View, bool) {
	for v, n := range viewNames {
		if n == name {
			return v, true
		}
	}
	return ViewLanding, false
}

// ScreenState is the state of an auth screen's submit button.
type ScreenState int

const (
	Idle ScreenState = iota
	Submitting
)

func (s ScreenState) String() string {
	if s == Submitting {
		return "submitting"
	}
	return "idle"
}
