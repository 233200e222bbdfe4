package core

// ExitErr carries a specific process exit code through cobra's error
// return. Used to distinguish "rendered, but some producers failed"
// from ordinary fatal errors.
type ExitErr struct {
	Code int
	Err  error
}

var _ error = ExitErr{}

func (e ExitErr) Error() string { return e.Err.Error() }
func (e ExitErr) Unwrap() error { return e.Err }
