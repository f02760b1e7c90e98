// Package rodbrowser implements the scraper's browser interface on top of a
// Chromium instance driven by go-rod over the DevTools protocol.
package rodbrowser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/iksnae/playlist-scraper/internal"
)

// Options controls how Chromium is launched
type Options struct {
	Headless bool
	Bin      string // explicit browser binary; empty uses the system browser or a downloaded Chromium
}

// Browser is a launched Chromium instance
type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// LookPath reports the system browser rod would use, if any
func LookPath() (string, bool) {
	return launcher.LookPath()
}

// Launch starts Chromium and connects to it
func Launch(ctx context.Context, opts Options) (*Browser, error) {
	l := launcher.New().
		Context(ctx).
		Headless(opts.Headless).
		Set("disable-blink-features", "AutomationControlled")

	bin := opts.Bin
	if bin == "" {
		if path, ok := launcher.LookPath(); ok {
			bin = path
		}
	}
	if bin != "" {
		internal.LogDebug("Using browser binary %s", bin)
		l = l.Bin(bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &Browser{browser: b, launcher: l}, nil
}

// NewPage opens a blank tab with network events enabled
func (b *Browser) NewPage(ctx context.Context) (internal.Page, error) {
	page, err := b.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	// detach from the caller's context; the page outlives individual calls
	page = page.Context(context.Background())
	p, err := newPage(page)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Close shuts the browser down and removes its temporary profile
func (b *Browser) Close() error {
	err := b.browser.Close()
	b.launcher.Kill()
	b.launcher.Cleanup()
	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}
