// Command torrentcore-cli is a development harness for exercising the
// engine end to end: add/list/pause/resume/remove/create/stats against an
// in-process Engine. It is not a network-facing daemon — anything that
// needs the engine from another process embeds the engine package directly
// instead of talking to this binary.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
