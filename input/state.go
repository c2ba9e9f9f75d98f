package input

// InputMode selects which bindings apply
// Kept in sync by the app controller via SetMode()
type InputMode uint8

const (
	ModeCommand InputMode = iota // command line focused, printable keys are text
	ModeReading                  // reading or paused, keys drive playback
)
