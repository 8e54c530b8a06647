// Command jarvis is a terminal personal assistant: a schedule driven by
// free-text commands, with XP, focus sessions and proactive suggestions.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
