package loader

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultHTTPTimeout bounds a single record fetch by the default resolver.
const DefaultHTTPTimeout = 30 * time.Second

// CompositeResolver dispatches paths to resolvers mounted on prefixes such
// as "https://" or "github.com/". Paths with no matching mount go to the
// fallback.
type CompositeResolver struct {
	mu        sync.RWMutex
	resolvers map[string]FileResolver
	fallback  FileResolver
}

func NewCompositeResolver() *CompositeResolver {
	return &CompositeResolver{
		resolvers: make(map[string]FileResolver),
	}
}

// NewDefaultResolver reads local paths from disk and fetches http(s) URLs
// and github.com/<user>/<repo>/<path> references over HTTP.
func NewDefaultResolver() *CompositeResolver {
	c := NewCompositeResolver()
	c.SetFallback(DiskResolver{})
	client := &http.Client{Timeout: DefaultHTTPTimeout}
	web := NewHTTPResolver("").WithClient(client)
	c.Mount("http://", web)
	c.Mount("https://", web)
	gh := NewGitHubResolver()
	gh.http.WithClient(client)
	c.Mount("github.com/", gh)
	return c
}

func (c *CompositeResolver) SetFallback(r FileResolver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fallback = r
}

func (c *CompositeResolver) Mount(prefix string, r FileResolver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolvers[prefix] = r
}

func (c *CompositeResolver) find(path string) FileResolver {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// longest prefix wins
	var bestMatch string
	var best FileResolver
	for prefix, r := range c.resolvers {
		if strings.HasPrefix(path, prefix) && len(prefix) > len(bestMatch) {
			bestMatch = prefix
			best = r
		}
	}
	if best != nil {
		return best
	}
	return c.fallback
}

func (c *CompositeResolver) Resolve(path string) (io.ReadCloser, string, error) {
	r := c.find(path)
	if r == nil {
		return nil, path, fmt.Errorf("no resolver mounted for path: %s", path)
	}
	return r.Resolve(path)
}

// HTTPResolver fetches record files over HTTP. Bodies are cached per path
// for the life of the resolver.
type HTTPResolver struct {
	baseURL string
	client  *http.Client
	cache   sync.Map // path -> []byte
}

func NewHTTPResolver(baseURL string) *HTTPResolver {
	return &HTTPResolver{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{},
	}
}

// WithClient swaps the HTTP client, e.g. for one with a timeout.
func (h *HTTPResolver) WithClient(client *http.Client) *HTTPResolver {
	h.client = client
	return h
}

func (h *HTTPResolver) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return h.baseURL + "/" + strings.TrimPrefix(path, "/")
}

func (h *HTTPResolver) Resolve(path string) (io.ReadCloser, string, error) {
	url := h.url(path)
	if cached, ok := h.cache.Load(path); ok {
		return io.NopCloser(bytes.NewReader(cached.([]byte))), url, nil
	}

	resp, err := h.client.Get(url)
	if err != nil {
		return nil, url, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, url, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, url, fmt.Errorf("failed to read response: %w", err)
	}

	h.cache.Store(path, data)
	return io.NopCloser(bytes.NewReader(data)), url, nil
}

// ClearCache drops every cached body.
func (h *HTTPResolver) ClearCache() {
	h.cache.Range(func(key, _ any) bool {
		h.cache.Delete(key)
		return true
	})
}

// GitHubResolver reads github.com/<user>/<repo>/<path> from the main branch
// of the raw content host.
type GitHubResolver struct {
	http *HTTPResolver
}

func NewGitHubResolver() *GitHubResolver {
	return &GitHubResolver{http: NewHTTPResolver("https://raw.githubusercontent.com")}
}

func (g *GitHubResolver) transformPath(path string) string {
	if rest, ok := strings.CutPrefix(path, "github.com/"); ok {
		parts := strings.SplitN(rest, "/", 3)
		if len(parts) == 3 {
			return fmt.Sprintf("/%s/%s/main/%s", parts[0], parts[1], parts[2])
		}
	}
	return path
}

func (g *GitHubResolver) Resolve(path string) (io.ReadCloser, string, error) {
	return g.http.Resolve(g.transformPath(path))
}
