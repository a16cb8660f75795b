package main

// reportedError marks a failure the user has already been shown, so main
// exits non-zero without printing it again.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string {
	if e.err == nil {
		return "reported failure"
	}
	return e.err.Error()
}

func (e *reportedError) Unwrap() error {
	return e.err
}
