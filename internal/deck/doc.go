// Package deck reads fixed-column keyword files into an immutable Deck.
//
// # Scanning
//
// A deck is scanned once, line by line, by a small state machine:
//
//	ScanningForKeyword ──keyword line──▶ AccumulatingBlock
//	AccumulatingBlock  ──keyword line──▶ (flush) AccumulatingBlock
//	AccumulatingBlock  ──end of input──▶ (flush) Done
//
// Comment lines are dropped in every state. Blank lines are data while a
// block is being accumulated and are ignored otherwise.
//
// # Blocks
//
// Each flushed block goes through a BlockReader, which looks its keyword up
// in a format.Table. Fixed blocks are cut into groups of the entry's line
// count, one Card per group. Variable-length blocks produce a single Card
// whose repeated-line fields hold sequences.
//
// Unknown keywords are reported to the Reporter and skipped. Shape and
// conversion failures abort the parse with a *BlockShapeError or
// *FieldConversionError carrying the keyword and file line.
//
// # Lookup tables
//
// After the scan, node coordinates (NODE), node set members
// (SET_NODE_LIST) and part extra node sets (CONSTRAINED_EXTRA_NODES_SET)
// are derived once and exposed read-only.
package deck
