// Package comparator compares two already-produced LoadResults (typically a
// baseline run and a current run) and flags which metrics regressed beyond
// a configurable threshold. It reads its inputs as plain LoadResult values
// supplied by the caller; it keeps no history of its own.
package comparator
