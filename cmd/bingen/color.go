package main

import (
	"os"
	"regexp"

	"golang.org/x/sys/unix"
)

// isatty reports whether the program is running in a terminal. If it is true,
// we can use ANSI color codes.
func isatty() bool {
	_, err := unix.IoctlGetWinsize(int(os.Stderr.Fd()), unix.TIOCGWINSZ)
	return err == nil
}

var (
	rePos  = regexp.MustCompile(`(?m)^[^\s:]+\.go:\d+:\d+:`)
	reNote = regexp.MustCompile(`(?m)^\t.+`)
)

// colorize adds ANSI color codes to the message. Positions are red and
// indented notes are dim.
func colorize(message string) string {
	const (
		red   = "\033[31m"
		dim   = "\033[2m"
		reset = "\033[0m"
	)
	m := []byte(message)
	m = rePos.ReplaceAllFunc(m, func(b []byte) []byte {
		return []byte(red + string(b) + reset)
	})
	m = reNote.ReplaceAllFunc(m, func(b []byte) []byte {
		return []byte(dim + string(b) + reset)
	})
	return string(m)
}
