package internal

import (
	"context"
	"time"
)

// WaitPolicy selects when a navigation is considered finished
type WaitPolicy int

const (
	// WaitLoad returns once the load event fired
	WaitLoad WaitPolicy = iota
	// WaitNetworkIdle returns once the page stopped issuing requests
	WaitNetworkIdle
)

func (w WaitPolicy) String() string {
	switch w {
	case WaitNetworkIdle:
		return "network-idle"
	default:
		return "load"
	}
}

// Browser is the browser engine the scraper drives
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Page is a single browser tab.
//
// OnResponse handlers run on the engine's event goroutine, one response at a
// time in arrival order. The returned func detaches the handler.
type Page interface {
	Cookies(ctx context.Context) ([]Cookie, error)
	SetCookies(ctx context.Context, cookies []Cookie) error
	OnResponse(handler func(Response)) (cancel func())
	Navigate(ctx context.Context, url string, wait WaitPolicy) error
	WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error
	Has(ctx context.Context, selector string) (bool, error)
	Click(ctx context.Context, selector string) error
	Anchors(ctx context.Context, selector string) ([]Anchor, error)
	URL() string
	Close() error
}

// Response is a finished network response observed on a page
type Response interface {
	URL() string
	// Body fetches a copy of the response body without consuming the page's stream
	Body() (string, error)
}
