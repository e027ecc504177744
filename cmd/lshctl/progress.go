package main

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// newProgressBar builds a bulk-operation progress bar styled after
// pyscn's service.ProgressManagerImpl.createProgressBar, rendering to
// stderr only when stderr is a TTY — the same check
// ProgressManagerImpl.SetWriter runs via term.IsTerminal before deciding
// whether a bar should draw at all, so piping lshctl's output or running
// it in CI doesn't spam a log with carriage-return spam.
func newProgressBar(max int64, description string) *progressbar.ProgressBar {
	w := io.Writer(os.Stderr)
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		w = io.Discard
	}
	return progressbar.NewOptions64(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
}
