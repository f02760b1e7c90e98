package rodbrowser

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/iksnae/playlist-scraper/internal"
)

// networkIdle is how long the page must go without requests to count as settled
const networkIdle = 500 * time.Millisecond

// Page adapts a rod page
type Page struct {
	page   *rod.Page
	stop   context.CancelFunc
	bridge *responseBridge
}

func newPage(page *rod.Page) (*Page, error) {
	if err := (proto.NetworkEnable{}).Call(page); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("failed to enable network events: %w", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	p := &Page{
		page: page,
		stop: stop,
		bridge: newResponseBridge(func(id proto.NetworkRequestID, url string) internal.Response {
			return &response{page: page, id: id, url: url}
		}),
	}

	wait := page.Context(ctx).EachEvent(
		p.bridge.received,
		p.bridge.finished,
		p.bridge.failed,
	)
	go wait()

	return p, nil
}

func (p *Page) OnResponse(handler func(internal.Response)) func() {
	return p.bridge.subscribe(handler)
}

func (p *Page) Cookies(ctx context.Context) ([]internal.Cookie, error) {
	cookies, err := p.page.Context(ctx).Cookies(nil)
	if err != nil {
		return nil, err
	}
	out := make([]internal.Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, fromProto(c))
	}
	return out, nil
}

func (p *Page) SetCookies(ctx context.Context, cookies []internal.Cookie) error {
	// rod treats an empty list as "clear all cookies"
	if len(cookies) == 0 {
		return nil
	}
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		params = append(params, toProto(c))
	}
	return p.page.Context(ctx).SetCookies(params)
}

func (p *Page) Navigate(ctx context.Context, url string, wait internal.WaitPolicy) error {
	page := p.page.Context(ctx)

	var idle func()
	if wait == internal.WaitNetworkIdle {
		idle = page.WaitRequestIdle(networkIdle, nil, nil, nil)
	}
	if err := page.Navigate(url); err != nil {
		return err
	}
	if idle != nil {
		idle()
	} else if err := page.WaitLoad(); err != nil {
		return err
	}
	return ctx.Err()
}

func (p *Page) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	_, err := p.page.Context(ctx).Element(selector)
	return err
}

func (p *Page) Has(ctx context.Context, selector string) (bool, error) {
	has, _, err := p.page.Context(ctx).Has(selector)
	return has, err
}

func (p *Page) Click(ctx context.Context, selector string) error {
	el, err := p.page.Context(ctx).Element(selector)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// Anchors reads each anchor's resolved href and text content in DOM order
func (p *Page) Anchors(ctx context.Context, selector string) ([]internal.Anchor, error) {
	els, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, err
	}
	anchors := make([]internal.Anchor, 0, len(els))
	for _, el := range els {
		href, err := el.Property("href")
		if err != nil {
			return nil, fmt.Errorf("failed to read href: %w", err)
		}
		text, err := el.Property("textContent")
		if err != nil {
			return nil, fmt.Errorf("failed to read text: %w", err)
		}
		anchors = append(anchors, internal.Anchor{Href: href.Str(), Text: text.Str()})
	}
	return anchors, nil
}

func (p *Page) URL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (p *Page) Close() error {
	p.stop()
	return p.page.Close()
}

type response struct {
	page *rod.Page
	id   proto.NetworkRequestID
	url  string
}

func (r *response) URL() string {
	return r.url
}

// Body asks the browser for its cached copy of the body; the page's own
// consumer is unaffected.
func (r *response) Body() (string, error) {
	res, err := proto.NetworkGetResponseBody{RequestID: r.id}.Call(r.page)
	if err != nil {
		return "", err
	}
	if !res.Base64Encoded {
		return res.Body, nil
	}
	data, err := base64.StdEncoding.DecodeString(res.Body)
	if err != nil {
		return "", fmt.Errorf("failed to decode body: %w", err)
	}
	return string(data), nil
}

func fromProto(c *proto.NetworkCookie) internal.Cookie {
	return internal.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Expires:  float64(c.Expires),
		Size:     c.Size,
		HTTPOnly: c.HTTPOnly,
		Secure:   c.Secure,
		Session:  c.Session,
		SameSite: string(c.SameSite),
	}
}

func toProto(c internal.Cookie) *proto.NetworkCookieParam {
	param := &proto.NetworkCookieParam{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Secure:   c.Secure,
		HTTPOnly: c.HTTPOnly,
	}
	if !c.Session && c.Expires > 0 {
		param.Expires = proto.TimeSinceEpoch(c.Expires)
	}
	if c.SameSite != "" {
		param.SameSite = proto.NetworkCookieSameSite(strings.TrimSpace(c.SameSite))
	}
	return param
}
