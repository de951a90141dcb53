package chat

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// Spinner animates a small progress indicator while a model call is in
// flight. Stop is safe to call more than once.
type Spinner struct {
	w        io.Writer
	interval time.Duration
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewSpinner creates a spinner writing to w
func NewSpinner(w io.Writer) *Spinner {
	return &Spinner{
		w:        w,
		interval: 100 * time.Millisecond,
		done:     make(chan struct{}),
	}
}

// Start begins the animation in a background goroutine
func (s *Spinner) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		frame := 0
		for {
			select {
			case <-s.done:
				// Clear the spinner line before handing the terminal back
				fmt.Fprint(s.w, "\r                \r")
				return
			case <-ticker.C:
				fmt.Fprintf(s.w, "\r%s Thinking...", spinnerFrames[frame%len(spinnerFrames)])
				frame++
			}
		}
	}()
}

// Stop ends the animation and clears the line
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}
