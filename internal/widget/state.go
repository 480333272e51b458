package widget

// LoadState tracks the read path of a section.
type LoadState int

// Read path states.
const (
	LoadIdle LoadState = iota
	Loading
	Rendered
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadIdle:
		return "idle"
	case Loading:
		return "loading"
	case Rendered:
		return "rendered"
	case LoadFailed:
		return "load_failed"
	default:
		return "unknown"
	}
}

// SubmitState tracks the most recent transition on the write path.
type SubmitState int

// Write path states.
const (
	SubmitIdle SubmitState = iota
	Submitting
	Appended
	SubmitFailed
)

func (s SubmitState) String() string {
	switch s {
	case SubmitIdle:
		return "idle"
	case Submitting:
		return "submitting"
	case Appended:
		return "appended"
	case SubmitFailed:
		return "submit_failed"
	default:
		return "unknown"
	}
}
