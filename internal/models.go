package internal

import "time"

// Cookie is one persisted cookie record. Field names follow the record
// layout browsers report over the DevTools protocol, so cookies.json files
// written by other tooling load unchanged.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"` // unix seconds, -1 for session cookies
	Size     int     `json:"size"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	Session  bool    `json:"session"`
	SameSite string  `json:"sameSite,omitempty"`
}

// ExpiresAt returns the expiry as a time, or the zero time for session cookies
func (c Cookie) ExpiresAt() time.Time {
	if c.Session || c.Expires <= 0 {
		return time.Time{}
	}
	sec := int64(c.Expires)
	nsec := int64((c.Expires - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}

// PlaylistRef identifies one episode sub-page
type PlaylistRef struct {
	URL  string `json:"url" yaml:"url"`
	Name string `json:"name" yaml:"name"`
}

// CapturedPlaylist is the outcome of visiting one PlaylistRef. Found is false
// when no matching response was observed, which is not an error.
type CapturedPlaylist struct {
	Ref   PlaylistRef
	Body  string
	Found bool
	Err   error // set when the page failed; the result is then treated as absent
}

// Anchor is a link extracted from a rendered page
type Anchor struct {
	Href string
	Text string
}

// IndexEntry is one line of the series index
type IndexEntry struct {
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label" yaml:"label"`
	Path  string `json:"path" yaml:"path"`
	URL   string `json:"url" yaml:"url"`
	Bytes int    `json:"bytes" yaml:"bytes"`
}

// SeriesIndex describes a completed run for summary exporters
type SeriesIndex struct {
	RunID       string       `json:"run_id" yaml:"run_id"`
	Series      string       `json:"series" yaml:"series"`
	SourceURL   string       `json:"source_url" yaml:"source_url"`
	GeneratedAt time.Time    `json:"generated_at" yaml:"generated_at"`
	Entries     []IndexEntry `json:"entries" yaml:"entries"`
	Missing     []string     `json:"missing,omitempty" yaml:"missing,omitempty"`
}
