package testutil

import (
	"path/filepath"
	"testing"
)

// BrowserCookieRecord is a cookies.json as written by a headless Chrome
// automation script, including fields the scraper does not model.
const BrowserCookieRecord = `[
  {
    "name": "sid",
    "value": "s%3Aabc.def",
    "domain": ".site.test",
    "path": "/",
    "expires": 1893456000.5,
    "size": 15,
    "httpOnly": true,
    "secure": true,
    "session": false,
    "sameSite": "Lax",
    "priority": "Medium",
    "sameParty": false,
    "sourceScheme": "Secure",
    "sourcePort": 443
  },
  {
    "name": "theme",
    "value": "dark",
    "domain": "site.test",
    "path": "/",
    "expires": -1,
    "size": 9,
    "httpOnly": false,
    "secure": false,
    "session": true,
    "priority": "Medium"
  }
]`

// CreateCookieFixture writes a cookies.json into dir and returns its path
func CreateCookieFixture(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "cookies.json")
	WriteFile(t, path, []byte(content))
	return path
}

// CreateEnvFixture writes a dotenv file into dir and returns its path
func CreateEnvFixture(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ".env")
	WriteFile(t, path, []byte(content))
	return path
}
