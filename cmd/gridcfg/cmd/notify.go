package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	infoColor    = color.New(color.FgBlue)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
)

func successf(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, "✔ %s\n", fmt.Sprintf(format, args...))
}

func infof(w io.Writer, format string, args ...any) {
	infoColor.Fprintf(w, "ℹ %s\n", fmt.Sprintf(format, args...))
}

func warnf(w io.Writer, format string, args ...any) {
	warnColor.Fprintf(w, "⚠ %s\n", fmt.Sprintf(format, args...))
}

// Errorf prints a command failure.
func Errorf(w io.Writer, format string, args ...any) {
	errorColor.Fprintf(w, "✗ %s\n", fmt.Sprintf(format, args...))
}
