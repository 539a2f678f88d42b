package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

func printSuccess(format string, args ...any) {
	color.New(color.FgGreen).Printf("✓ %s\n", fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	color.New(color.FgRed).Fprintf(os.Stderr, "✗ %s\n", fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	color.New(color.FgYellow).Printf("⚠ %s\n", fmt.Sprintf(format, args...))
}

func printInfo(format string, args ...any) {
	color.New(color.FgCyan).Printf("ℹ %s\n", fmt.Sprintf(format, args...))
}

// newProgressBar draws batch progress in percent.
func newProgressBar(w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Starting"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}
