package interact

import "fmt"

type State int

const (
	Free State = iota
	Targeted
	Held
	// Charging is the re-armed phase of a hold: the object has left the
	// viewer and is back in simulation while the throw key stays down.
	Charging
)

func (s State) String() string {
	switch s {
	case Free:
		return "Free"
	case Targeted:
		return "Targeted"
	case Held:
		return "Held"
	case Charging:
		return "Charging"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Simulated reports whether the object's rigid body is owned by the physics
// step in this state.
func (s State) Simulated() bool {
	return s != Held
}

// ThrowMode selects how the throw vector reaches the body.
type ThrowMode int

const (
	// ThrowForce applies the throw vector as a force on every gaze tick while
	// the throw key is down.
	ThrowForce ThrowMode = iota
	// ThrowImpulse applies the throw vector once when the key goes down.
	ThrowImpulse
)

func (m ThrowMode) String() string {
	switch m {
	case ThrowForce:
		return "force"
	case ThrowImpulse:
		return "impulse"
	}
	return fmt.Sprintf("ThrowMode(%d)", int(m))
}

// ParseThrowMode maps a config string onto a ThrowMode.
func ParseThrowMode(s string) (ThrowMode, error) {
	switch s {
	case "", "force":
		return ThrowForce, nil
	case "impulse":
		return ThrowImpulse, nil
	}
	return ThrowForce, fmt.Errorf("unknown throw mode %q", s)
}
