package httputil

import "net/http"

// BrowserHeaders returns browser-like headers for a Swedish desktop visitor.
func BrowserHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", "sv-SE,sv;q=0.9,en;q=0.5")
	h.Set("Accept-Encoding", "gzip, deflate, br")
	h.Set("Connection", "keep-alive")
	h.Set("Upgrade-Insecure-Requests", "1")
	return h
}

// RobotsHeaders returns the headers sent with robots.txt fetches.
func RobotsHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "text/plain,*/*;q=0.8")
	h.Set("Accept-Encoding", "gzip, br")
	return h
}
