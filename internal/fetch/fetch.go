package fetch

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrUnsupportedContent = errors.New("unsupported content type")
	// ErrTooLarge is returned by the body reader once the size cap is exceeded.
	ErrTooLarge = errors.New("response body exceeds size cap")
)

// acceptedTypes lists the media types a spreadsheet source may be served as.
var acceptedTypes = []string{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/vnd.ms-excel",
	"application/octet-stream",
	"application/zip",
	"text/csv",
	"text/plain",
	"text/html",
	"application/xhtml+xml",
	"application/x-ndjson",
	"application/jsonl",
}

type HTTPClient struct {
	client    *http.Client
	sizeCap   int64
	userAgent string
}

func NewHTTPClient(timeout, dialTimeout time.Duration, sizeCap int64) *HTTPClient {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &HTTPClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		sizeCap:   sizeCap,
		userAgent: "kwreport/1.0",
	}
}

// HostAllowed matches host against exact names; an entry with a leading dot also
// matches its subdomains. An empty list allows every host.
func HostAllowed(host string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	host = strings.ToLower(host)
	for _, a := range allowed {
		a = strings.ToLower(a)
		if strings.HasPrefix(a, ".") {
			if host == a[1:] || strings.HasSuffix(host, a) {
				return true
			}
			continue
		}
		if host == a {
			return true
		}
	}
	return false
}

// RestrictRedirects stops redirects to hosts outside allowed.
func (h *HTTPClient) RestrictRedirects(allowed []string) {
	if len(allowed) == 0 {
		return
	}
	h.client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= 10 {
			return errors.New("stopped after 10 redirects")
		}
		if !HostAllowed(req.URL.Hostname(), allowed) {
			return fmt.Errorf("redirect to %s not allowed", req.URL.Hostname())
		}
		return nil
	}
}

// IsRemote reports whether source should be downloaded rather than opened.
func IsRemote(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch downloads rawURL, returning the size-capped body, the final URL after
// redirects, the Content-Type header and the elapsed time. Reading past the cap
// fails with ErrTooLarge rather than truncating.
func (h *HTTPClient) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, string, string, time.Duration, error) {
	start := time.Now()
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, "", "", 0, fmt.Errorf("invalid url %q", rawURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", "", 0, err
	}
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, "", "", 0, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, "", "", 0, fmt.Errorf("http status %d", resp.StatusCode)
	}

	if resp.ContentLength > h.sizeCap {
		resp.Body.Close()
		return nil, "", "", 0, fmt.Errorf("%w (%d > %d bytes)", ErrTooLarge, resp.ContentLength, h.sizeCap)
	}

	contentType := resp.Header.Get("Content-Type")
	if !accepted(contentType) {
		resp.Body.Close()
		return nil, "", "", 0, fmt.Errorf("%w: %s", ErrUnsupportedContent, contentType)
	}

	var body io.ReadCloser = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, "", "", 0, err
		}
		body = readCloser{Reader: gz, close: func() error {
			gz.Close()
			return resp.Body.Close()
		}}
	}

	finalURL := resp.Request.URL.String()
	capped := readCloser{Reader: &cappedReader{r: body, left: h.sizeCap, limit: h.sizeCap}, close: body.Close}
	return capped, finalURL, contentType, time.Since(start), nil
}

// accepted allows an empty Content-Type since some servers omit it.
func accepted(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	for _, t := range acceptedTypes {
		if mediaType == t {
			return true
		}
	}
	return false
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error { return r.close() }

// cappedReader passes through up to limit bytes and fails instead of truncating.
type cappedReader struct {
	r     io.Reader
	left  int64
	limit int64
}

func (c *cappedReader) Read(p []byte) (int, error) {
	if c.left <= 0 {
		var one [1]byte
		n, err := c.r.Read(one[:])
		if n > 0 {
			return 0, fmt.Errorf("%w (%d bytes)", ErrTooLarge, c.limit)
		}
		return 0, err
	}
	if int64(len(p)) > c.left {
		p = p[:c.left]
	}
	n, err := c.r.Read(p)
	c.left -= int64(n)
	return n, err
}
