package spinner

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Spinner shows terminal progress for the long phases of a review run,
// mainly the background-index wait and the provider call.
type Spinner struct {
	frames  []string
	delay   time.Duration
	message string
	out     io.Writer

	mu     sync.Mutex
	active bool
	done   chan struct{}
}

func New(message string) *Spinner {
	return NewWithWriter(message, os.Stdout)
}

func NewWithWriter(message string, out io.Writer) *Spinner {
	return &Spinner{
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		delay:   100 * time.Millisecond,
		message: message,
		out:     out,
	}
}

func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return
	}
	s.active = true
	s.done = make(chan struct{})

	go s.spin(s.done)
}

func (s *Spinner) spin(done chan struct{}) {
	ticker := time.NewTicker(s.delay)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.mu.Lock()
			fmt.Fprintf(s.out, "\r%s %s", s.frames[i%len(s.frames)], s.message)
			s.mu.Unlock()
		}
	}
}

// Stop halts the animation and clears the spinner line. Safe to call more
// than once.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.active = false
	close(s.done)

	fmt.Fprint(s.out, "\r"+strings.Repeat(" ", len(s.message)+10)+"\r")
}

// Update swaps the message while the spinner is running.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}
