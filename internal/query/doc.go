// Package query turns textual lookups such as
//
//	PART PID=100 MID=2
//
// into a keyword plus typed card.Predicates. Values are decoded with the
// field's own format, so "100" compares equal to an integer PID while
// "2" compares equal to a text MID.
package query
