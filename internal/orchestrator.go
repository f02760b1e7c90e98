package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// State is a step of a fetch run
type State int

const (
	StateInit State = iota
	StateDiscovering
	StateNavigating
	StatePopupCheck
	StateCapturing
	StatePersisting
	StateIndexing
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateDiscovering:
		return "discovering"
	case StateNavigating:
		return "navigating"
	case StatePopupCheck:
		return "popup-check"
	case StateCapturing:
		return "capturing"
	case StatePersisting:
		return "persisting"
	case StateIndexing:
		return "indexing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Transition is reported to the Observer on every state change.
// Ref, Index and Total are set inside the per-page loop only.
type Transition struct {
	From  State
	To    State
	Ref   *PlaylistRef
	Index int
	Total int
}

// SummaryExporter renders a SeriesIndex (see the export package)
type SummaryExporter interface {
	Export(index *SeriesIndex, w io.Writer) error
	Extension() string
}

// Options configures a fetch run
type Options struct {
	DownloadsDir     string
	MatchPattern     string
	ListSelector     string
	AnchorSelector   string
	PopupSelector    string
	PopupGrace       time.Duration
	DiscoveryTimeout time.Duration
	PageTimeout      time.Duration // per episode page; 0 disables the budget
	CaptureGrace     time.Duration // wait for a late playlist response
}

// DefaultOptions returns the options matching the supported site template
func DefaultOptions() Options {
	return Options{
		DownloadsDir:     DefaultDownloadsDir,
		MatchPattern:     DefaultMatchPattern,
		ListSelector:     DefaultListSelector,
		AnchorSelector:   DefaultAnchorSelector,
		PopupSelector:    DefaultPopupSelector,
		PopupGrace:       DefaultPopupGrace,
		DiscoveryTimeout: DefaultDiscoveryTimeout,
		PageTimeout:      2 * time.Minute,
		CaptureGrace:     5 * time.Second,
	}
}

// Result summarizes a finished run
type Result struct {
	RunID       string
	Series      string
	Dir         string
	IndexPath   string
	SummaryPath string
	Refs        []PlaylistRef
	Captures    []CapturedPlaylist
	Entries     []IndexEntry
}

// Orchestrator drives discovery and the per-page capture loop
type Orchestrator struct {
	browser  Browser
	store    *SessionStore
	opts     Options
	history  *History
	summary  SummaryExporter
	observer func(Transition)
	state    State
}

// NewOrchestrator creates an orchestrator over an already launched browser
func NewOrchestrator(browser Browser, store *SessionStore, opts Options) *Orchestrator {
	return &Orchestrator{
		browser: browser,
		store:   store,
		opts:    opts,
		state:   StateInit,
	}
}

// WithHistory records every capture attempt in h
func (o *Orchestrator) WithHistory(h *History) *Orchestrator {
	o.history = h
	return o
}

// WithSummary additionally writes summary.<ext> next to list.txt
func (o *Orchestrator) WithSummary(e SummaryExporter) *Orchestrator {
	o.summary = e
	return o
}

// WithObserver registers a callback for state transitions
func (o *Orchestrator) WithObserver(fn func(Transition)) *Orchestrator {
	o.observer = fn
	return o
}

// State returns the current state
func (o *Orchestrator) State() State {
	return o.state
}

// ValidateArguments checks the run arguments before any side effect
func ValidateArguments(rawURL, series string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		if err == nil {
			err = errors.New("absolute http(s) URL required")
		}
		return &ArgumentError{
			Arg:     "url",
			Value:   rawURL,
			Message: "Invalid URL provided. Please provide a valid URL.",
			Err:     err,
		}
	}
	if strings.TrimSpace(series) == "" {
		return &ArgumentError{
			Arg:     "series",
			Value:   series,
			Message: "Series name not provided. Please provide a series name.",
		}
	}
	return nil
}

// Run fetches every playlist of the series at seriesURL into
// <downloads>/<series>. Pages are visited one at a time because every visit
// round-trips the session through the single cookie record.
func (o *Orchestrator) Run(ctx context.Context, seriesURL, series string) (*Result, error) {
	o.state = StateInit
	if err := ValidateArguments(seriesURL, series); err != nil {
		o.transition(StateFailed, nil, 0, 0)
		return nil, err
	}
	seriesURL = strings.TrimSpace(seriesURL)

	result := &Result{
		RunID:  uuid.NewString(),
		Series: series,
	}

	o.transition(StateDiscovering, nil, 0, 0)
	discoverer := &Discoverer{
		Store:          o.store,
		ListSelector:   o.opts.ListSelector,
		AnchorSelector: o.opts.AnchorSelector,
		Timeout:        o.opts.DiscoveryTimeout,
	}
	refs, err := discoverer.Discover(ctx, o.browser, seriesURL)
	if err != nil {
		return nil, o.fail(err)
	}
	result.Refs = refs
	for _, name := range DuplicateNames(refs) {
		LogWarn("Display name %q appears more than once; later captures overwrite %s", name, name+ManifestExtension)
	}

	writer := NewSeriesWriter(o.opts.DownloadsDir, series)
	if err := writer.EnsureDir(); err != nil {
		return nil, o.fail(err)
	}
	result.Dir = writer.Dir()

	var missing []string
	for i, ref := range refs {
		captured := o.capturePage(ctx, ref, i, len(refs))

		var corrupt *SessionCorruptionError
		if errors.As(captured.Err, &corrupt) {
			return nil, o.fail(captured.Err)
		}
		if err := ctx.Err(); err != nil {
			return nil, o.fail(err)
		}
		result.Captures = append(result.Captures, captured)

		rec := CaptureRecord{
			RunID:  result.RunID,
			Series: series,
			Name:   ref.Name,
			URL:    ref.URL,
		}

		switch {
		case captured.Found:
			entry, err := writer.WriteManifest(ref, captured.Body)
			if err != nil {
				return nil, o.fail(err)
			}
			result.Entries = append(result.Entries, entry)
			rec.Status, rec.Bytes, rec.Path = StatusCaptured, entry.Bytes, entry.Path
		case captured.Err != nil:
			LogWarn("Skipping %s: %v", ref.Name, captured.Err)
			missing = append(missing, ref.Name)
			rec.Status, rec.Error = StatusFailed, captured.Err.Error()
		default:
			LogInfo("No playlist data found for %s", ref.Name)
			missing = append(missing, ref.Name)
			rec.Status = StatusAbsent
		}
		o.record(ctx, rec)
	}

	o.transition(StateIndexing, nil, 0, len(refs))
	if err := writer.WriteIndex(result.Entries); err != nil {
		return nil, o.fail(err)
	}
	result.IndexPath = writer.IndexPath()

	if o.summary != nil {
		path, err := writer.WriteSummary(o.summary, &SeriesIndex{
			RunID:       result.RunID,
			Series:      series,
			SourceURL:   seriesURL,
			GeneratedAt: time.Now().UTC(),
			Entries:     result.Entries,
			Missing:     missing,
		})
		if err != nil {
			return nil, o.fail(err)
		}
		result.SummaryPath = path
	}

	o.transition(StateDone, nil, 0, len(refs))
	LogInfo("Captured %d of %d playlist(s) into %s", len(result.Entries), len(refs), result.Dir)
	return result, nil
}

// capturePage visits one episode page. Every failure except a corrupt session
// record is reported through CapturedPlaylist.Err and counts as absent.
func (o *Orchestrator) capturePage(ctx context.Context, ref PlaylistRef, index, total int) CapturedPlaylist {
	out := CapturedPlaylist{Ref: ref}
	r := ref

	if o.opts.PageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.PageTimeout)
		defer cancel()
	}

	o.transition(StateNavigating, &r, index, total)
	page, err := o.browser.NewPage(ctx)
	if err != nil {
		out.Err = &PageCaptureError{Name: ref.Name, URL: ref.URL, Stage: "open", Err: err}
		return out
	}
	defer func() {
		if err := page.Close(); err != nil {
			LogWarn("Failed to close page for %s: %v", ref.Name, err)
		}
	}()

	if err := o.store.Load(ctx, page); err != nil {
		var corrupt *SessionCorruptionError
		if errors.As(err, &corrupt) {
			out.Err = err
		} else {
			out.Err = &PageCaptureError{Name: ref.Name, URL: ref.URL, Stage: "session", Err: err}
		}
		return out
	}

	capture := Attach(page, o.opts.MatchPattern)
	defer capture.Detach()

	LogInfo("Opening URL: %s", ref.URL)
	if err := page.Navigate(ctx, ref.URL, WaitNetworkIdle); err != nil {
		out.Err = &PageCaptureError{Name: ref.Name, URL: ref.URL, Stage: "navigate", Err: err}
		return out
	}

	o.transition(StatePopupCheck, &r, index, total)
	NewPopupPolicy(o.opts.PopupSelector, o.opts.PopupGrace).Dismiss(ctx, page)

	o.transition(StateCapturing, &r, index, total)
	out.Body, out.Found = capture.Finish(ctx, o.opts.CaptureGrace)
	if out.Found {
		LogInfo("Playlist data fetched successfully for %s", ref.Name)
	}

	o.transition(StatePersisting, &r, index, total)
	if err := o.store.Save(ctx, page); err != nil {
		LogWarn("Failed to save session after %s: %v", ref.Name, err)
		if !out.Found {
			out.Err = &PageCaptureError{Name: ref.Name, URL: ref.URL, Stage: "persist", Err: err}
		}
	}
	return out
}

func (o *Orchestrator) record(ctx context.Context, rec CaptureRecord) {
	if o.history == nil {
		return
	}
	if err := o.history.Record(ctx, rec); err != nil {
		LogWarn("Failed to record history for %s: %v", rec.Name, err)
	}
}

func (o *Orchestrator) fail(err error) error {
	LogError("Run failed in %s: %v", o.state, err)
	o.transition(StateFailed, nil, 0, 0)
	return err
}

func (o *Orchestrator) transition(to State, ref *PlaylistRef, index, total int) {
	from := o.state
	o.state = to
	LogDebug("State %s -> %s", from, to)
	if o.observer != nil {
		o.observer(Transition{From: from, To: to, Ref: ref, Index: index, Total: total})
	}
}
