// Package shell is an interactive query prompt over a parsed deck. Each
// line is one command; Eval runs a command against the deck and Run drives
// Eval from a line editor with history and completion.
package shell
