package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// stderr receives transient progress output.
var stderr io.Writer = os.Stderr

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner animates a status line on stderr while a sky is fetched. The
// animation ends with Stop or when the context it was made with ends.
type Spinner struct {
	message string
	out     io.Writer
	parent  context.Context

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	started sync.Once
	stopped sync.Once
	mu      sync.Mutex
}

func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	s := &Spinner{message: message, out: stderr, parent: ctx, done: make(chan struct{})}
	s.ctx, s.cancel = context.WithCancel(ctx)
	return s
}

// Start is a no-op after the first call.
func (s *Spinner) Start() {
	s.started.Do(func() { go s.run() })
}

func (s *Spinner) run() {
	defer close(s.done)
	t := time.NewTicker(spinnerInterval)
	defer t.Stop()
	for frame := 0; ; frame++ {
		select {
		case <-s.ctx.Done():
			s.write("\r" + strings.Repeat(" ", len(s.message)+4) + "\r")
			return
		case <-t.C:
			glyph := spinnerFrames[frame%len(spinnerFrames)]
			s.write("\r" + styleSpinner.Render(glyph) + " " + StyleDim.Render(s.message))
		}
	}
}

func (s *Spinner) write(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.out, line)
}

// Stop ends the animation and blanks the line. Safe to call more than once,
// and before Start.
func (s *Spinner) Stop() {
	s.stopped.Do(func() {
		s.cancel()
		started := true
		s.started.Do(func() { started = false })
		if started {
			<-s.done
		}
	})
}

func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's context ended, as opposed to an
// explicit Stop.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
