package cli

import (
	"errors"
	"strconv"
)

// Process exit codes.
const (
	ExitOK       = 0
	ExitFatal    = 1
	ExitSetup    = 2
	ExitFindings = 3
)

// ExitError carries the exit code a command failed with. Err is nil when the
// command already reported the outcome and only the code remains.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return "exit status " + strconv.Itoa(e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func setupError(err error) error {
	return &ExitError{Code: ExitSetup, Err: err}
}

func fatalError(err error) error {
	return &ExitError{Code: ExitFatal, Err: err}
}

// ExitCode maps a command error to a process exit code. Errors without an
// ExitError, such as flag parse failures, are setup errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitSetup
}
