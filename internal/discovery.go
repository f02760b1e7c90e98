package internal

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultListSelector     = "ul.play-list"
	DefaultAnchorSelector   = "ul.play-list a"
	DefaultDiscoveryTimeout = 30 * time.Second
)

// Discoverer extracts the episode list from a series landing page
type Discoverer struct {
	Store          *SessionStore
	ListSelector   string
	AnchorSelector string
	Timeout        time.Duration
}

// Discover visits seriesURL and returns its episode references in page order.
// Duplicates are kept; see DuplicateNames.
func (d *Discoverer) Discover(ctx context.Context, browser Browser, seriesURL string) ([]PlaylistRef, error) {
	page, err := browser.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			LogWarn("Failed to close page: %v", err)
		}
	}()

	if err := d.Store.Load(ctx, page); err != nil {
		return nil, err
	}

	LogInfo("Opening URL: %s", seriesURL)
	if err := page.Navigate(ctx, seriesURL, WaitNetworkIdle); err != nil {
		return nil, &DiscoveryError{URL: seriesURL, Err: err}
	}

	if err := page.WaitForSelector(ctx, d.ListSelector, d.Timeout); err != nil {
		return nil, &DiscoveryError{URL: seriesURL, Selector: d.ListSelector, Err: err}
	}

	anchors, err := page.Anchors(ctx, d.AnchorSelector)
	if err != nil {
		return nil, &DiscoveryError{URL: seriesURL, Selector: d.AnchorSelector, Err: err}
	}

	base := page.URL()
	if base == "" {
		base = seriesURL
	}
	refs, err := resolveAnchors(base, anchors)
	if err != nil {
		return nil, &DiscoveryError{URL: seriesURL, Err: err}
	}

	if err := d.Store.Save(ctx, page); err != nil {
		return nil, err
	}

	LogInfo("Discovered %d playlist page(s)", len(refs))
	return refs, nil
}

func resolveAnchors(base string, anchors []Anchor) ([]PlaylistRef, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL %q: %w", base, err)
	}

	refs := make([]PlaylistRef, 0, len(anchors))
	for _, a := range anchors {
		href := strings.TrimSpace(a.Href)
		if href == "" {
			LogWarn("Skipping anchor %q without href", strings.TrimSpace(a.Text))
			continue
		}
		u, err := url.Parse(href)
		if err != nil {
			LogWarn("Skipping anchor with invalid href %q: %v", href, err)
			continue
		}
		refs = append(refs, PlaylistRef{
			URL:  baseURL.ResolveReference(u).String(),
			Name: strings.TrimSpace(a.Text),
		})
	}
	return refs, nil
}

// DuplicateNames returns every display name used by more than one reference,
// in first-seen order. Their manifest files would overwrite each other.
func DuplicateNames(refs []PlaylistRef) []string {
	counts := make(map[string]int, len(refs))
	var dups []string
	for _, ref := range refs {
		counts[ref.Name]++
		if counts[ref.Name] == 2 {
			dups = append(dups, ref.Name)
		}
	}
	return dups
}
