package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess   = 0 // Extraction succeeded
	ExitExhausted = 1 // The loop ran but no attempt produced a matching routine
	ExitError     = 2 // Configuration or runtime error
)

// ExhaustedError indicates that the loop ran to completion but no candidate
// routine reproduced the reference dataset.
type ExhaustedError struct {
	Message string
}

func (e *ExhaustedError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var exhausted *ExhaustedError
		if errors.As(err, &exhausted) {
			os.Exit(ExitExhausted)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
