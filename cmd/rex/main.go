// Command rex is the CLI front-end over the rex library: match a
// pattern against a file or stdin and print its Report tree, or
// validate a definitions file. The library itself knows nothing about
// any of this; main and the root command are the library's first
// external collaborator.
package main

import (
	"os"
)

func main() {
	root := newRootCmd()
	err := root.Execute()
	os.Exit(exitCodeFor(err))
}

func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	switch {
	case errorsIs[*noMatchError](err):
		return 1
	case errorsIs[*usageError](err):
		return 2
	default:
		return 3
	}
}

// usageError marks a pattern/definitions-file error (parse or compile)
// as distinct from an I/O failure, so exitCodeFor can tell them apart
// without the root command reaching into cobra's own error plumbing.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// noMatchError marks "ran fine, found nothing" as distinct from any
// failure.
type noMatchError struct{}

func (e *noMatchError) Error() string { return "no match" }

func errorsIs[T error](err error) bool {
	for err != nil {
		if _, ok := err.(T); ok {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
