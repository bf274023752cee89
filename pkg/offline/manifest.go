// Package offline keeps a versioned set of static resources available
// without a network connection. It models the install, fetch and activate
// lifecycle of an offline worker as an explicit state machine.
package offline

import (
	"net/url"
	"strings"
)

// DefaultCacheName is the version-tagged identifier of the current cache
// generation. Bump it on each release to purge older generations.
const DefaultCacheName = "my-simple-log-cache-v1"

// DefaultURLs is the resource list made available offline.
var DefaultURLs = []string{
	"/",
	"/index.html",
	"/style.css",
	"/script.js",
	"/manifest.json",
	"/Images/icons8-adobe-indesign-240.png",
}

// Manifest pairs a cache identifier with the resources it must hold.
type Manifest struct {
	Name string
	URLs []string
}

// DefaultManifest returns the built-in manifest.
func DefaultManifest() Manifest {
	return Manifest{Name: DefaultCacheName, URLs: append([]string(nil), DefaultURLs...)}
}

// normalized returns the manifest with empty and repeated URLs removed,
// keeping first-seen order.
func (m Manifest) normalized() Manifest {
	seen := make(map[string]bool, len(m.URLs))
	urls := make([]string, 0, len(m.URLs))
	for _, u := range m.URLs {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return Manifest{Name: m.Name, URLs: urls}
}

// requestKey is the cache key for u: path plus query for same-origin
// resources, the full URL for foreign ones.
func requestKey(u *url.URL, origin *url.URL) string {
	if u.IsAbs() && (origin == nil || !strings.EqualFold(u.Host, origin.Host)) {
		return u.String()
	}
	key := u.RequestURI()
	if key == "" {
		key = "/"
	}
	return key
}
