package offline

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// SourceHeader names the response header reporting where a response came from.
const SourceHeader = "X-Simplelog-Source"

// Handler returns a router that answers every request through Fetch.
func (m *Manager) Handler() http.Handler {
	r := chi.NewRouter()
	r.HandleFunc("/*", m.ServeHTTP)
	return r
}

// ServeHTTP implements http.Handler.
func (m *Manager) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp, src := m.fetch(r.Context(), r)
	if resp == nil {
		w.Header().Set(SourceHeader, string(src))
		http.Error(w, "resource unavailable offline", http.StatusGatewayTimeout)
		return
	}

	h := w.Header()
	for k, vs := range resp.Header {
		switch http.CanonicalHeaderKey(k) {
		case "Content-Length", "Transfer-Encoding", "Connection":
			continue
		}
		for _, v := range vs {
			h.Add(k, v)
		}
	}
	h.Set(SourceHeader, string(src))
	h.Set("Content-Length", strconv.Itoa(len(resp.Body)))

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(resp.Body)
	}
}
