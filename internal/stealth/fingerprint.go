package stealth

import (
	"net/http"
	"sync"
)

// AcceptLanguage is the locale every identity advertises. Store pages
// render Swedish price text regardless, but a Swedish locale keeps the
// consent and store-picker labels stable.
const AcceptLanguage = "sv-SE,sv;q=0.9,en-US;q=0.6,en;q=0.4"

// Fingerprint is a browser identity applied both to the headless page
// (user agent override) and to auxiliary HTTP requests.
type Fingerprint struct {
	UserAgent string
	// Platform is the navigator.platform value matching UserAgent.
	Platform string
	Headers  http.Header
}

// FingerprintPool rotates through a set of browser fingerprints.
type FingerprintPool struct {
	fingerprints []Fingerprint
	mu           sync.Mutex
	idx          int
}

// NewFingerprintPool creates a pool of Chromium desktop identities. Only
// Chromium builds are listed since the page itself runs in Chromium.
func NewFingerprintPool() *FingerprintPool {
	return &FingerprintPool{
		fingerprints: defaultFingerprints(),
	}
}

// Next returns the next fingerprint in round-robin order.
func (fp *FingerprintPool) Next() Fingerprint {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	f := fp.fingerprints[fp.idx%len(fp.fingerprints)]
	fp.idx++
	return f
}

// Len reports how many identities the pool rotates through.
func (fp *FingerprintPool) Len() int { return len(fp.fingerprints) }

// chromeMajor is the Chromium major version every identity claims.
const chromeMajor = "140"

func defaultFingerprints() []Fingerprint {
	return []Fingerprint{
		chromium("Windows NT 10.0; Win64; x64", "Win32", "Windows", ""),
		chromium("Macintosh; Intel Mac OS X 10_15_7", "MacIntel", "macOS", ""),
		chromium("X11; Linux x86_64", "Linux x86_64", "Linux", ""),
		chromium("Windows NT 10.0; Win64; x64", "Win32", "Windows", " Edg/"+chromeMajor+".0.0.0"),
	}
}

func chromium(osToken, navPlatform, hintPlatform, suffix string) Fingerprint {
	return Fingerprint{
		UserAgent: "Mozilla/5.0 (" + osToken + ") AppleWebKit/537.36 (KHTML, like Gecko) Chrome/" +
			chromeMajor + ".0.0.0 Safari/537.36" + suffix,
		Platform: navPlatform,
		Headers:  chromeHeaders(chromeMajor, hintPlatform),
	}
}

func chromeHeaders(version, platform string) http.Header {
	h := http.Header{}
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	h.Set("Accept-Language", AcceptLanguage)
	h.Set("Accept-Encoding", "gzip, deflate, br")
	h.Set("Sec-Ch-Ua", `"Chromium";v="`+version+`", "Not(A:Brand";v="99", "Google Chrome";v="`+version+`"`)
	h.Set("Sec-Ch-Ua-Mobile", "?0")
	h.Set("Sec-Ch-Ua-Platform", `"`+platform+`"`)
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "none")
	h.Set("Sec-Fetch-User", "?1")
	h.Set("Upgrade-Insecure-Requests", "1")
	return h
}
