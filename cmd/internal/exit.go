package internal

import (
	"fmt"
	"io"
	"strings"
)

// ExitFailure is the process exit code for any failed operation.
const ExitFailure = 1

// Echo will emit the given message to w without any logging formatting.
func Echo(w io.Writer, msg string, args ...any) {
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	_, _ = fmt.Fprintf(w, msg, args...)
}

// Failed reports the full error chain to w and returns ExitFailure.
func Failed(w io.Writer, err error) int {
	Echo(w, "Error: %v", err)
	return ExitFailure
}
