package internal

import (
	"context"
	"time"
)

const (
	DefaultPopupSelector = ".pop-close-btn"
	DefaultPopupGrace    = 3 * time.Second
)

// PopupPolicy closes the overlay some episode pages open after load.
// It is best effort: every failure is logged and the capture goes on.
type PopupPolicy struct {
	Selector      string
	Grace         time.Duration // time for the close animation to finish
	ReadySelector string        // element that marks a rendered page
	ReadyTimeout  time.Duration
}

// NewPopupPolicy returns the policy for the given selector and grace period
func NewPopupPolicy(selector string, grace time.Duration) PopupPolicy {
	return PopupPolicy{
		Selector:      selector,
		Grace:         grace,
		ReadySelector: "body",
		ReadyTimeout:  10 * time.Second,
	}
}

// Dismiss reports whether an overlay was found and clicked
func (p PopupPolicy) Dismiss(ctx context.Context, page Page) bool {
	if p.Selector == "" {
		return false
	}

	if p.ReadySelector != "" {
		if err := page.WaitForSelector(ctx, p.ReadySelector, p.ReadyTimeout); err != nil {
			LogWarn("Page body not ready, probing for popup anyway: %v", err)
		}
	}

	present, err := page.Has(ctx, p.Selector)
	if err != nil {
		LogWarn("Popup probe failed: %v", err)
		return false
	}
	if !present {
		return false
	}

	LogInfo("Popup detected, clicking %s", p.Selector)
	if err := page.Click(ctx, p.Selector); err != nil {
		LogWarn("Failed to close popup: %v", err)
		return false
	}

	if p.Grace > 0 {
		timer := time.NewTimer(p.Grace)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			LogWarn("Popup grace period interrupted: %v", ctx.Err())
			return true
		}
	}
	LogDebug("Popup closed")
	return true
}
