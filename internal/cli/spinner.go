package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// spinner shows an animated status line on a terminal while a stage runs.
// On anything that is not a terminal it does nothing, so redirected stderr
// and test buffers only ever see log lines.
type spinner struct {
	w       io.Writer
	message string
	enabled bool
	frames  []string

	mu      sync.Mutex
	started bool
	stop    chan struct{}
	stopped chan struct{}
}

// newSpinner creates a spinner writing to w. It is enabled only when w is
// an *os.File attached to a terminal.
func newSpinner(w io.Writer, message string) *spinner {
	return &spinner{
		w:       w,
		message: message,
		enabled: isTerminal(w),
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Start begins the animation. It ends when Stop is called or ctx is done.
func (s *spinner) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled || s.started {
		return
	}
	s.started = true

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-ctx.Done():
				s.clearLine()
				return
			case <-s.stop:
				s.clearLine()
				return
			case <-ticker.C:
				frame := s.frames[i%len(s.frames)]
				fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), styleDim.Render(s.message))
			}
		}
	}()
}

// Stop ends the animation and clears the line. It is safe to call more
// than once and without a prior Start.
func (s *spinner) Stop() {
	s.mu.Lock()
	started := s.started
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	s.mu.Unlock()

	if started {
		<-s.stopped
	}
}

func (s *spinner) clearLine() {
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}
