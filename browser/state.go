package browser

// State is the lifecycle stage of a Session.
type State int

const (
	Uninitialized State = iota
	Starting
	Ready
	ShuttingDown
	Stopped
	Failed
)

var stateNames = [...]string{
	Uninitialized: "uninitialized",
	Starting:      "starting",
	Ready:         "ready",
	ShuttingDown:  "shutting_down",
	Stopped:       "stopped",
	Failed:        "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// canStart reports whether Start may launch a browser from s.
func (s State) canStart() bool {
	return s == Uninitialized || s == Stopped || s == Failed
}
