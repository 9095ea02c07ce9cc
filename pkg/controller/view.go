package controller

// View exposes the UI regions the controller mutates. Calls for a single
// submission are made in order and never interleave with another
// submission's calls.
type View interface {
	// Reset hides the result and error regions and clears their text.
	Reset()
	ShowLoading()
	HideLoading()
	// ShowResult renders text literally in the result region and reveals it.
	ShowResult(text string)
	// ShowError renders message in the error region and reveals it.
	ShowError(message string)
}

// Notifier raises a blocking, user-facing notice (the terminal counterpart
// of an alert box).
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }
