// Package export renders a parsed deck as JSON, YAML or MessagePack.
//
// Every format carries the same document: the cards in file order, each
// with its keyword, first data line and fields, followed by the node,
// node set and extra node set tables. JSON goes through go-cty so the
// document is typed before it is encoded; YAML and MessagePack keep field
// declaration order through custom marshalers.
package export
