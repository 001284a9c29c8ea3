//go:build !linux

package main

// TODO - use TIOCGETA on the BSDs and darwin.
func isTerminal(fd uintptr) bool {
	return false
}
