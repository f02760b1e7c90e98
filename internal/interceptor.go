package internal

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultMatchPattern is the URL fragment of the playlist allocation endpoint
const DefaultMatchPattern = "/allocate/playlist/"

// Capture holds the playlist body observed on one page. A response with an
// empty body is not a playlist.
//
// Only the response handler writes to it; the orchestrator reads it once,
// through Finish. Bodies are ranked by the order their responses arrived,
// so a slow body read for an early response never replaces a later one.
type Capture struct {
	pattern string
	cancel  func()

	mu       sync.Mutex
	body     string
	found    bool
	seq      uint64 // last sequence number handed out
	stored   uint64 // sequence number of body
	inflight int
	matches  int
	closed   bool
	changed  chan struct{}
}

// Attach subscribes to page responses whose URL contains pattern. It must be
// called before navigation starts.
func Attach(page Page, pattern string) *Capture {
	c := &Capture{
		pattern: pattern,
		changed: make(chan struct{}),
	}
	c.cancel = page.OnResponse(c.observe)
	return c
}

func (c *Capture) observe(resp Response) {
	url := resp.URL()
	if !strings.Contains(url, c.pattern) {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.seq++
	seq := c.seq
	c.inflight++
	c.matches++
	c.mu.Unlock()

	body, err := resp.Body()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	switch {
	case err != nil:
		LogWarn("Failed to read response body for %s: %v", url, err)
	case c.closed:
		LogDebug("Dropping late response %s", url)
	case seq > c.stored:
		// an empty body counts as no playlist, and still replaces an earlier one
		c.body = body
		c.found = body != ""
		c.stored = seq
		LogDebug("Captured response %s (%d bytes)", url, len(body))
	}
	c.notify()
}

// notify wakes Finish. Caller holds mu.
func (c *Capture) notify() {
	close(c.changed)
	c.changed = make(chan struct{})
}

// Finish ends the capture phase. It waits for in-flight body reads and, when
// nothing matched yet, up to grace for a first match. The subscription is
// detached before returning, so the result cannot change afterwards.
func (c *Capture) Finish(ctx context.Context, grace time.Duration) (string, bool) {
	timer := time.NewTimer(grace)
	defer timer.Stop()
	graceOver := grace <= 0

	for {
		c.mu.Lock()
		if c.inflight == 0 && (c.found || graceOver) {
			body, found := c.body, c.found
			c.closed = true
			c.mu.Unlock()
			c.Detach()
			return body, found
		}
		wait := c.changed
		c.mu.Unlock()

		select {
		case <-wait:
		case <-timer.C:
			graceOver = true
		case <-ctx.Done():
			c.mu.Lock()
			body, found := c.body, c.found
			c.closed = true
			c.mu.Unlock()
			c.Detach()
			LogDebug("Capture phase cut short: %v", ctx.Err())
			return body, found
		}
	}
}

// Detach stops observing responses. Safe to call more than once.
func (c *Capture) Detach() {
	c.mu.Lock()
	c.closed = true
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Matches returns how many responses matched the pattern so far
func (c *Capture) Matches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matches
}
