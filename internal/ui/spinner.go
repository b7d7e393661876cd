package ui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var frames = []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}

// Spinner displays an animated progress line while a batch is scraped.
type Spinner struct {
	out  io.Writer
	mu   sync.Mutex
	msg  string
	done chan struct{}
	wg   sync.WaitGroup
}

// NewSpinner creates a Spinner writing to out (usually stderr). It is not
// running until Start.
func NewSpinner(out io.Writer) *Spinner {
	return &Spinner{out: out}
}

// Start begins the animation with the given message. Starting a running
// spinner only updates the message.
func (s *Spinner) Start(msg string) {
	s.mu.Lock()
	s.msg = msg
	if s.done != nil {
		s.mu.Unlock()
		return
	}
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(done)
}

// Update changes the spinner message while it's running.
func (s *Spinner) Update(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.mu.Unlock()
}

// Stop halts the spinner and clears the line. It waits for the animation
// goroutine so nothing is written afterwards.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if s.done == nil {
		s.mu.Unlock()
		return
	}
	close(s.done)
	s.done = nil
	s.mu.Unlock()

	s.wg.Wait()
	fmt.Fprint(s.out, "\r\033[K")
}

func (s *Spinner) run(done <-chan struct{}) {
	defer s.wg.Done()
	tick := time.NewTicker(80 * time.Millisecond)
	defer tick.Stop()

	i := 0
	for {
		select {
		case <-done:
			return
		case <-tick.C:
			s.mu.Lock()
			msg := s.msg
			s.mu.Unlock()
			fmt.Fprintf(s.out, "\r\033[K%c %s", frames[i%len(frames)], msg)
			i++
		}
	}
}
