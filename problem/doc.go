// Package problem parses and validates maze-routing problem files.
//
// The file format is plain text: grid dimensions, an obstruction count
// followed by that many coordinates, then a pin-set count followed by
// one line per set ("k x1 y1 ... xk yk"). Declared counts must agree
// with the parsed content.
package problem
