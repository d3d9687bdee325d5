package internal

// FnModeOptions carries the run-mode flags shared by the CLI surfaces.
// Test mode simulates device responses without issuing HTTP calls.
type FnModeOptions struct {
	Debug bool
	Test  bool
}

func NewModeOptions(debug, test bool) FnModeOptions {
	return FnModeOptions{Debug: debug, Test: test}
}
