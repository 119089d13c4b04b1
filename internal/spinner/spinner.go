// Package spinner renders a terminal activity indicator for
// long-running work such as loading benchmark tables.
package spinner

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a single status line on a terminal. The message
// can change while the spinner runs, e.g. per table being loaded.
type Spinner struct {
	w        io.Writer
	mu       sync.Mutex
	message  string
	maxWidth int

	done     chan struct{}
	cleared  chan struct{}
	stopOnce sync.Once
}

// Start begins animating message on w. Call Stop to halt the
// animation and clear the line.
func Start(w io.Writer, message string) *Spinner {
	s := &Spinner{
		w:       w,
		message: message,
		done:    make(chan struct{}),
		cleared: make(chan struct{}),
	}
	go s.run()
	return s
}

// SetMessage replaces the status text on the next frame.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Stop halts the animation and clears the line. Safe to call more
// than once; it blocks until the line has been cleared.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	<-s.cleared
}

func (s *Spinner) run() {
	i := 0
	for {
		select {
		case <-s.done:
			s.mu.Lock()
			width := s.maxWidth
			s.mu.Unlock()
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", width)) //nolint:errcheck
			close(s.cleared)
			return
		case <-time.After(80 * time.Millisecond):
			s.mu.Lock()
			line := fmt.Sprintf("%s %s", frames[i%len(frames)], s.message)
			// Messages shrink as well as grow; clear to the widest
			// line drawn so far so no tail is left behind.
			if w := runewidth.StringWidth(line); w > s.maxWidth {
				s.maxWidth = w
			}
			s.mu.Unlock()
			fmt.Fprintf(s.w, "\r%s", line) //nolint:errcheck
			i++
		}
	}
}
