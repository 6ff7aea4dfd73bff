package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// isTTY reports whether w is a terminal. Writers without a file descriptor,
// such as *bytes.Buffer, are not.
func isTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && isatty.IsTerminal(f.Fd())
}

// ProgressBar tracks a fixed number of steps, e.g. categories being
// preloaded:
//
//	[==========>         ]  50% Preloading categories
//
// On a terminal the bar redraws in place. Elsewhere only the final state is
// printed.
type ProgressBar struct {
	mu      sync.Mutex
	w       io.Writer
	total   int
	done    int
	label   string
	width   int
	printed bool
}

// NewProgress creates a bar for total steps writing to stdout.
func NewProgress(total int, label string) *ProgressBar {
	return &ProgressBar{total: total, label: label, width: 30, w: os.Stdout}
}

// SetWriter redirects output.
func (p *ProgressBar) SetWriter(w io.Writer) {
	p.mu.Lock()
	p.w = w
	p.mu.Unlock()
}

// SetLabel changes the text after the bar, e.g. to name the current step.
func (p *ProgressBar) SetLabel(label string) {
	p.mu.Lock()
	p.label = label
	p.mu.Unlock()
}

// Increment records one finished step.
func (p *ProgressBar) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done < p.total {
		p.done++
	}
	p.draw()
}

// Finish fills the bar and ends the line.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = p.total
	if isTTY(p.w) {
		p.draw()
		fmt.Fprintln(p.w)
		return
	}
	p.draw()
}

// draw must be called with p.mu held.
func (p *ProgressBar) draw() {
	pct := 100
	filled := p.width
	if p.total > 0 {
		pct = p.done * 100 / p.total
		filled = p.done * p.width / p.total
	}

	bar := strings.Repeat("=", filled)
	if filled > 0 && filled < p.width {
		bar = bar[:filled-1] + ">"
	}
	bar += strings.Repeat(" ", p.width-filled)

	if isTTY(p.w) {
		fmt.Fprintf(p.w, "\r[%s] %3d%% %s", bar, pct, p.label)
		return
	}
	if p.done == p.total && !p.printed {
		p.printed = true
		fmt.Fprintf(p.w, "[%s] %3d%% %s\n", bar, pct, p.label)
	}
}

var spinnerFrames = []string{"|", "/", "-", "\\"}

// Spinner shows that a long command, such as an install, is still running.
// With a deadline set it counts down the remaining time.
type Spinner struct {
	mu       sync.Mutex
	w        io.Writer
	msg      string
	deadline time.Duration
	started  time.Time
	running  bool
	stop     chan struct{}
	stopped  chan struct{}
}

// NewSpinner creates a stopped spinner writing to stdout.
func NewSpinner(msg string) *Spinner {
	return &Spinner{msg: msg, w: os.Stdout}
}

// WithTimeout shows "(Ns remaining)" against d. Call before Start.
func (s *Spinner) WithTimeout(d time.Duration) *Spinner {
	s.mu.Lock()
	s.deadline = d
	s.mu.Unlock()
	return s
}

// SetWriter redirects output.
func (s *Spinner) SetWriter(w io.Writer) {
	s.mu.Lock()
	s.w = w
	s.mu.Unlock()
}

// Start begins animating. On a non-terminal the message is printed once.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.started = time.Now()

	if !isTTY(s.w) {
		fmt.Fprintf(s.w, "%s...\n", s.msg)
		return
	}

	s.stop = make(chan struct{})
	s.stopped = make(chan struct{})
	go s.spin(s.stop, s.stopped)
}

func (s *Spinner) spin(stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	t := time.NewTicker(100 * time.Millisecond)
	defer t.Stop()
	for i := 0; ; i++ {
		select {
		case <-stop:
			return
		case <-t.C:
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s  %s", spinnerFrames[i%len(spinnerFrames)], s.text())
			s.mu.Unlock()
		}
	}
}

// text must be called with s.mu held.
func (s *Spinner) text() string {
	if s.deadline <= 0 {
		return s.msg
	}
	left := s.deadline - time.Since(s.started)
	if left < 0 {
		left = 0
	}
	return fmt.Sprintf("%s (%ds remaining)", s.msg, int(left.Seconds()))
}

// UpdateMessage replaces the message while running.
func (s *Spinner) UpdateMessage(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.mu.Unlock()
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop, stopped := s.stop, s.stopped
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-stopped

	s.mu.Lock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", displayWidth(s.text())+4))
	s.mu.Unlock()
}

// StopWithMessage stops the spinner and prints msg on its own line.
func (s *Spinner) StopWithMessage(msg string) {
	s.Stop()
	s.mu.Lock()
	fmt.Fprintln(s.w, msg)
	s.mu.Unlock()
}
