// Package card defines the decoded record produced from a keyword block: a
// Card of named, typed field values, and the Value type those fields hold.
//
// Cards are built once by the deck's block reader through a Builder and are
// read-only afterwards. Field names are stored in uppercase and every lookup
// is case-insensitive.
package card
