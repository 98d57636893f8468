// Package version contains information on the current version of the
// program. It is split from the main program for easy use.
package version

// Current is the string representing the current version of refa.
const Current = "0.1.0"

// ServerCurrent is the version of refaserve, tracked separately from the
// core library/CLI version.
const ServerCurrent = "0.1.0"
