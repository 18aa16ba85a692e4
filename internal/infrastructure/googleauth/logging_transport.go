package googleauth

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// loggingTransport wraps an existing http.RoundTripper and logs outgoing
// Google API requests with method, URL, latency and status. Upload bodies are
// video files and are never dumped.
type loggingTransport struct {
	base http.RoundTripper
	log  *zap.SugaredLogger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	t.log.Debugf("[drive] -> %s %s", req.Method, req.URL.Redacted())

	rt := t.base
	if rt == nil {
		rt = http.DefaultTransport
	}
	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.log.Warnf("[drive] <- error: %v (elapsed %v)", err, time.Since(start))
		return resp, err
	}

	t.log.Debugf("[drive] <- status: %d (elapsed %v)", resp.StatusCode, time.Since(start))
	return resp, err
}
