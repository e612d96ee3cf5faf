package download

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// meter renders a transfer as a single erasable progress line.
type meter struct {
	label string
	total int64
	done  int64
	bar   progress.Model
	out   io.Writer
	every time.Duration
	last  time.Time
	width int
}

func newMeter(out io.Writer, label string, total int64) *meter {
	return &meter{
		label: label,
		total: total,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		out:   out,
		every: 100 * time.Millisecond,
	}
}

// Write counts p towards the total and redraws at most once per interval.
func (m *meter) Write(p []byte) (int, error) {
	m.done += int64(len(p))
	if m.done >= m.total || time.Since(m.last) >= m.every {
		m.render()
	}
	return len(p), nil
}

func (m *meter) percent() float64 {
	if m.total <= 0 {
		return 0
	}
	return min(float64(m.done)/float64(m.total), 1)
}

func (m *meter) render() {
	m.last = time.Now()
	line := m.label + " " + m.bar.ViewAs(m.percent())
	m.width = max(m.width, lipgloss.Width(line))
	_, _ = fmt.Fprintf(m.out, "\r%s", line)
}

func (m *meter) erase() {
	if m.width == 0 {
		return
	}
	_, _ = fmt.Fprintf(m.out, "\r%s\r", strings.Repeat(" ", m.width))
}
