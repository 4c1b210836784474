// Package progress renders a terminal activity indicator with a running item count for batch jobs.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/term"
)

var frames = []string{"◜", "◠", "◝", "◞", "◡", "◟"}

// Indicator is a spinner followed by a label and a count of processed items.
// Add and Inc may be called from any goroutine.
type Indicator struct {
	writer io.Writer
	delay  time.Duration
	count  atomic.Int64

	mu     sync.RWMutex
	label  string
	active bool
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New returns a stopped indicator writing to w; it stops when ctx is done.
func New(ctx context.Context, w io.Writer, label string) *Indicator {
	indicatorCtx, cancel := context.WithCancel(ctx)
	return &Indicator{
		writer: w,
		delay:  100 * time.Millisecond,
		label:  label,
		ctx:    indicatorCtx,
		cancel: cancel,
	}
}

// Start begins rendering. Calling Start on a running indicator does nothing.
func (p *Indicator) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active {
		return
	}
	p.active = true

	p.wg.Add(1)
	go p.run()
}

// Stop halts rendering and clears the line.
func (p *Indicator) Stop() {
	p.mu.Lock()
	if !p.active {
		p.mu.Unlock()
		return
	}
	p.active = false
	p.cancel()
	p.mu.Unlock()

	p.wg.Wait()

	// only erase the line on a real terminal
	if f, ok := p.writer.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(p.writer, "\r\033[2K")
	} else {
		fmt.Fprint(p.writer, "\r")
	}
}

// IsActive reports whether the indicator is rendering.
func (p *Indicator) IsActive() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.active
}

// SetLabel replaces the label.
func (p *Indicator) SetLabel(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.label = label
}

// Inc counts one processed item.
func (p *Indicator) Inc() {
	p.count.Add(1)
}

// Add counts n processed items.
func (p *Indicator) Add(n int) {
	p.count.Add(int64(n))
}

// Count returns the number of processed items.
func (p *Indicator) Count() int64 {
	return p.count.Load()
}

func (p *Indicator) line(frame int) string {
	p.mu.RLock()
	label := p.label
	p.mu.RUnlock()
	return fmt.Sprintf("\r%s %s (%d)", frames[frame%len(frames)], label, p.count.Load())
}

func (p *Indicator) run() {
	defer p.wg.Done()

	frame := 0
	ticker := time.NewTicker(p.delay)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			fmt.Fprint(p.writer, p.line(frame))
			frame++
		}
	}
}
