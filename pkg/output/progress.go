package output

import (
	"io"

	"github.com/cheggaaa/pb/v3"
)

// barTemplate shows a running resource counter; totals are not known up
// front because enumeration and comparison are interleaved.
const barTemplate = `comparing {{.Current}} resources`

// progressBar wraps a counting progress bar for interactive runs.
type progressBar struct {
	bar *pb.ProgressBar
}

func newProgressBar(w io.Writer) *progressBar {
	bar := pb.ProgressBarTemplate(barTemplate).New(0)
	bar.SetWriter(w)
	bar.Start()
	return &progressBar{bar: bar}
}

// Tick advances the resource counter by one.
func (p *progressBar) Tick() {
	p.bar.Increment()
}

// Interrupt runs fn while the bar is active; the bar redraws on the next
// tick, so fn may print whole lines.
func (p *progressBar) Interrupt(fn func()) {
	fn()
}

// Finish stops and clears the bar.
func (p *progressBar) Finish() {
	p.bar.Finish()
}
