// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the load-then-act lifecycle: build the card
// format table, parse the deck, then run the requested actions. It is
// decoupled from any specific entrypoint like a CLI.
package app
