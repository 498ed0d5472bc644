// Package format holds the declarative description of fixed-column keyword
// blocks: field specs, line specs, per-keyword entries and the table that
// maps keywords to entries.
//
// Entries are written in a small mini-language, one definition line per
// physical card line:
//
//	NID-I8 X-F16 Y-F16 Z-F16 (TC-I8) (RC-I8)
//
// Definitions are parsed once, when a Table is assembled, never while a deck
// is being read.
package format
