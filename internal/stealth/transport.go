package stealth

import (
	"net/http"

	"github.com/lukman83/offerscrap/internal/httputil"
)

// StealthTransport is the http.RoundTripper used for auxiliary requests
// such as robots.txt: Fingerprint → Proxy → Send. Page navigation itself
// goes through the browser and is paced by Gate.
type StealthTransport struct {
	Base        http.RoundTripper
	Fingerprint *FingerprintPool
	Proxy       *ProxyRotator
}

func (t *StealthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	headers := httputil.BrowserHeaders()
	if t.Fingerprint != nil {
		fp := t.Fingerprint.Next()
		req.Header.Set("User-Agent", fp.UserAgent)
		headers = fp.Headers
	}
	for key, vals := range headers {
		if req.Header.Get(key) == "" {
			for _, v := range vals {
				req.Header.Add(key, v)
			}
		}
	}

	transport := t.Base
	if t.Proxy != nil {
		transport = t.Proxy.Next().Transport()
	}
	if transport == nil {
		transport = http.DefaultTransport
	}

	return transport.RoundTrip(req)
}
