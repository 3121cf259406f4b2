package progress

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Output is where bars are drawn. Tests point it to io.Discard.
var Output io.Writer = os.Stderr

var Progress = progressCreate(-1, "") // init as spinner

func ProgressSpinner(desc string) {
	_ = Progress.Clear()
	ProgressReset(-1, desc)
	_ = Progress.RenderBlank()
}

// ProgressReset replaces the bar with one counting to max files.
func ProgressReset(max int, desc string) {
	Progress = progressCreate(max, desc)
}

func Describe(desc string) {
	Progress.Describe(desc)
}

func Add(n int) {
	_ = Progress.Add(n)
}

func Finish() {
	_ = Progress.Finish()
}

func progressCreate(max int, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(Output),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("frames"),
		progressbar.OptionShowIts(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[cyan]=[reset]",
			SaucerHead:    "[cyan]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
