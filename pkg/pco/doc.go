// Package pco reads survey point files in the key=value ".pco" format.
//
// A point file is a flat sequence of "key=value" lines. A line whose key is
// the point-number key ("5") starts a new record; the following lines fill
// it until the next point-number line or the end of input:
//
//	5=12
//	4=10..7
//	37=5012.381
//	38=1204,77
//	39=101.2
//
// Recognized keys:
//
//	5   point number (starts a record)
//	4   point code (classification plus connection directives)
//	37  X coordinate
//	38  Y coordinate
//	39  Z coordinate (optional)
//
// Every other pair is retained as an opaque attribute in file order. Decimal
// values accept either "." or "," as the separator. A record is emitted only
// when its number, X and Y all parsed; anything else is dropped silently,
// matching how field instruments write partial records.
//
// The package only tokenizes. Decoding the code syntax lives in [code],
// building the connection graph in [graph].
package pco
