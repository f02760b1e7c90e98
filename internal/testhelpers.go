package internal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// EventLog records browser calls and orchestrator steps in order
type EventLog struct {
	mu     sync.Mutex
	events []string
}

// Add appends an event
func (l *EventLog) Add(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

// Events returns a copy of the recorded events
func (l *EventLog) Events() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.events))
	copy(out, l.events)
	return out
}

// IndexOf returns the position of the first matching event, or -1
func (l *EventLog) IndexOf(event string) int {
	for i, e := range l.Events() {
		if e == event {
			return i
		}
	}
	return -1
}

// FakeResponse is a response a FakeSite emits after navigation
type FakeResponse struct {
	URL   string
	Body  string
	Err   error         // returned by Body()
	Delay time.Duration // emitted asynchronously after Delay when > 0
}

// FakeSite describes how one URL behaves in a FakeBrowser
type FakeSite struct {
	Elements   map[string]bool     // selectors present after load
	Anchors    map[string][]Anchor // selector -> anchors
	Responses  []FakeResponse
	SetCookies []Cookie // cookies the server issues on navigation
	NavErr     error
	ClickErr   error
	Hang       bool // navigation blocks until the context ends
}

// FakeBrowser is an in-memory Browser for tests
type FakeBrowser struct {
	Sites map[string]*FakeSite
	Log   *EventLog

	mu    sync.Mutex
	pages []*FakePage
}

// NewFakeBrowser creates a browser serving sites
func NewFakeBrowser(sites map[string]*FakeSite) *FakeBrowser {
	return &FakeBrowser{Sites: sites, Log: &EventLog{}}
}

// NewPage opens a page with an empty cookie jar
func (b *FakeBrowser) NewPage(ctx context.Context) (Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := &FakePage{browser: b, id: len(b.pages) + 1, handlers: map[int]func(Response){}}
	b.pages = append(b.pages, p)
	b.Log.Add("page%d:open", p.id)
	return p, nil
}

// Close closes the browser
func (b *FakeBrowser) Close() error {
	b.Log.Add("browser:close")
	return nil
}

// Pages returns every page opened so far
func (b *FakeBrowser) Pages() []*FakePage {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*FakePage, len(b.pages))
	copy(out, b.pages)
	return out
}

// FakePage is a page of a FakeBrowser
type FakePage struct {
	browser *FakeBrowser
	id      int

	mu       sync.Mutex
	url      string
	site     *FakeSite
	cookies  []Cookie
	handlers map[int]func(Response)
	nextID   int
	closed   bool
	emitters sync.WaitGroup
}

type fakeResponse struct {
	FakeResponse
}

func (r fakeResponse) URL() string { return r.FakeResponse.URL }

func (r fakeResponse) Body() (string, error) {
	if r.Err != nil {
		return "", r.Err
	}
	return r.FakeResponse.Body, nil
}

// Emit delivers a response to the page's handlers
func (p *FakePage) Emit(resp FakeResponse) {
	p.mu.Lock()
	handlers := make([]func(Response), 0, len(p.handlers))
	for id := 0; id < p.nextID; id++ {
		if h, ok := p.handlers[id]; ok {
			handlers = append(handlers, h)
		}
	}
	p.mu.Unlock()
	for _, h := range handlers {
		h(fakeResponse{resp})
	}
}

func (p *FakePage) Cookies(ctx context.Context) ([]Cookie, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.browser.Log.Add("page%d:cookies", p.id)
	out := make([]Cookie, len(p.cookies))
	copy(out, p.cookies)
	return out, nil
}

func (p *FakePage) SetCookies(ctx context.Context, cookies []Cookie) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.browser.Log.Add("page%d:set-cookies", p.id)
	p.cookies = mergeCookies(p.cookies, cookies)
	return nil
}

func (p *FakePage) OnResponse(handler func(Response)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.handlers[id] = handler
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.handlers, id)
	}
}

func (p *FakePage) Navigate(ctx context.Context, url string, wait WaitPolicy) error {
	p.browser.Log.Add("page%d:navigate %s", p.id, url)
	site, ok := p.browser.Sites[url]
	if !ok {
		return fmt.Errorf("net::ERR_NAME_NOT_RESOLVED %s", url)
	}
	if site.Hang {
		<-ctx.Done()
		return ctx.Err()
	}
	if site.NavErr != nil {
		return site.NavErr
	}

	p.mu.Lock()
	p.url = url
	p.site = site
	p.cookies = mergeCookies(p.cookies, site.SetCookies)
	p.mu.Unlock()

	for _, resp := range site.Responses {
		if resp.Delay > 0 {
			p.emitters.Add(1)
			go func(r FakeResponse) {
				defer p.emitters.Done()
				time.Sleep(r.Delay)
				p.Emit(r)
			}(resp)
			continue
		}
		p.Emit(resp)
	}
	return nil
}

func (p *FakePage) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	if p.present(selector) {
		return nil
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-timer.C:
		return fmt.Errorf("timed out after %s waiting for %s", timeout, selector)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *FakePage) Has(ctx context.Context, selector string) (bool, error) {
	p.browser.Log.Add("page%d:has %s", p.id, selector)
	return p.present(selector), nil
}

func (p *FakePage) Click(ctx context.Context, selector string) error {
	p.browser.Log.Add("page%d:click %s", p.id, selector)
	if !p.present(selector) {
		return errors.New("element not found")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.site.ClickErr
}

func (p *FakePage) Anchors(ctx context.Context, selector string) ([]Anchor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.site == nil {
		return nil, nil
	}
	return p.site.Anchors[selector], nil
}

func (p *FakePage) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *FakePage) Close() error {
	p.emitters.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.handlers = map[int]func(Response){}
	p.browser.Log.Add("page%d:close", p.id)
	return nil
}

// Closed reports whether Close was called
func (p *FakePage) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Jar returns the page's current cookies
func (p *FakePage) Jar() []Cookie {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Cookie, len(p.cookies))
	copy(out, p.cookies)
	return out
}

func (p *FakePage) present(selector string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.site != nil && p.site.Elements[selector]
}

func mergeCookies(jar, update []Cookie) []Cookie {
	out := make([]Cookie, 0, len(jar)+len(update))
	out = append(out, jar...)
	for _, c := range update {
		replaced := false
		for i := range out {
			if out[i].Name == c.Name && out[i].Domain == c.Domain && out[i].Path == c.Path {
				out[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, c)
		}
	}
	return out
}

// CreateTestCookies returns a small cookie set covering every field
func CreateTestCookies() []Cookie {
	return []Cookie{
		{
			Name:     "sid",
			Value:    "abc123",
			Domain:   ".site.test",
			Path:     "/",
			Expires:  1893456000,
			Size:     9,
			HTTPOnly: true,
			Secure:   true,
			SameSite: "Lax",
		},
		{
			Name:    "pref",
			Value:   "dark",
			Domain:  "site.test",
			Path:    "/ep",
			Expires: -1,
			Size:    8,
			Session: true,
		},
	}
}

// CreateTestSeries returns a series page with the given episode anchors
func CreateTestSeries(anchors ...Anchor) *FakeSite {
	return &FakeSite{
		Elements: map[string]bool{"body": true, DefaultListSelector: true},
		Anchors:  map[string][]Anchor{DefaultAnchorSelector: anchors},
	}
}

// CreateTestIndex creates a series index with sample entries
func CreateTestIndex(series string) *SeriesIndex {
	return &SeriesIndex{
		RunID:       "run-" + series,
		Series:      series,
		SourceURL:   "https://site.test/series/" + series,
		GeneratedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Entries: []IndexEntry{
			{
				Name:  "Episode One",
				Label: "Episode One",
				Path:  "downloads/" + series + "/Episode One.m3u8",
				URL:   "https://site.test/ep/1",
				Bytes: 42,
			},
			{
				Name:  "Episode-Two",
				Label: "Episode_Two",
				Path:  "downloads/" + series + "/Episode-Two.m3u8",
				URL:   "https://site.test/ep/2",
				Bytes: 17,
			},
		},
		Missing: []string{"Episode Three"},
	}
}

// CreateTestEpisode returns a rendered episode page emitting responses
func CreateTestEpisode(responses ...FakeResponse) *FakeSite {
	return &FakeSite{
		Elements:  map[string]bool{"body": true},
		Responses: responses,
	}
}
