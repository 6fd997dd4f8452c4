// Package api is a caching client for schema servers.
//
// A schema server exports pre-compiled schemas at /export/schema and
// /<version>/export/schema and lists available versions at /api/versions.
// Fetched schemas are cached on disk keyed by version, so repeated diffs
// against a released version cost one request.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/adrg/xdg"

	"github.com/seclattice/taxonomy/schema"
)

// Version tokens resolved against the server's version list.
const (
	VersionLatest       = "latest"
	VersionLatestStable = "latest-stable"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithCacheDir sets the schema cache directory.
func WithCacheDir(dir string) Option {
	return func(c *Client) { c.cacheDir = dir }
}

// WithoutCache disables the on-disk schema cache.
func WithoutCache() Option {
	return func(c *Client) { c.cacheDir = "" }
}

// Client fetches schemas from a schema server.
type Client struct {
	baseURL  string
	httpc    *http.Client
	cacheDir string
	versions *serverVersions
}

// NewClient builds a client for the server at baseURL. The cache defaults
// to a taxonomy directory under the user cache dir.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("api client: base URL required")
	}
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		httpc:    http.DefaultClient,
		cacheDir: filepath.Join(xdg.CacheHome, "taxonomy"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type serverVersion struct {
	URL     string `json:"url"`
	Version string `json:"version"`
}

type serverVersions struct {
	Default  serverVersion   `json:"default"`
	Versions []serverVersion `json:"versions"`
}

// Versions returns the schema versions the server offers.
func (c *Client) Versions(ctx context.Context) ([]string, error) {
	listing, err := c.fetchVersions(ctx)
	if err != nil {
		return nil, err
	}
	versions := make([]string, 0, len(listing.Versions))
	for _, v := range listing.Versions {
		versions = append(versions, v.Version)
	}
	return versions, nil
}

// DefaultVersion returns the server's default schema version.
func (c *Client) DefaultVersion(ctx context.Context) (string, error) {
	listing, err := c.fetchVersions(ctx)
	if err != nil {
		return "", err
	}
	return listing.Default.Version, nil
}

// ResolveVersion expands the latest and latest-stable tokens against the
// server's version list and validates everything else as a semantic
// version.
func (c *Client) ResolveVersion(ctx context.Context, version string) (string, error) {
	switch version {
	case VersionLatest, VersionLatestStable:
		versions, err := c.Versions(ctx)
		if err != nil {
			return "", err
		}
		resolved, err := highestVersion(versions, version == VersionLatestStable)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", version, err)
		}
		return resolved, nil
	default:
		if _, err := semver.StrictNewVersion(version); err != nil {
			return "", fmt.Errorf("invalid version %q: %w", version, err)
		}
		return version, nil
	}
}

func highestVersion(versions []string, stableOnly bool) (string, error) {
	var best *semver.Version
	for _, raw := range versions {
		v, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		if stableOnly && v.Prerelease() != "" {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
		}
	}
	if best == nil {
		return "", fmt.Errorf("no matching version on server")
	}
	return best.Original(), nil
}

// Schema fetches one schema. An empty version requests the server's
// default version, bypassing the cache read but still updating it. Known
// versions are served from the cache when possible.
func (c *Client) Schema(ctx context.Context, version string) (*schema.Schema, error) {
	if version != "" {
		resolved, err := c.ResolveVersion(ctx, version)
		if err != nil {
			return nil, err
		}
		version = resolved

		if cached, ok := c.readCache(version); ok {
			return cached, nil
		}

		versions, err := c.Versions(ctx)
		if err != nil {
			return nil, err
		}
		if !contains(versions, version) {
			return nil, fmt.Errorf("version %s not found on server", version)
		}
	}

	fetched, err := c.fetchSchema(ctx, version)
	if err != nil {
		return nil, err
	}
	c.writeCache(fetched)
	return fetched, nil
}

func (c *Client) fetchSchema(ctx context.Context, version string) (*schema.Schema, error) {
	url := c.baseURL + "/export/schema"
	if version != "" {
		url = c.baseURL + "/" + version + "/export/schema"
	}
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	s, err := schema.FromJSON(body)
	if err != nil {
		return nil, fmt.Errorf("decode schema from %s: %w", url, err)
	}
	return s, nil
}

func (c *Client) fetchVersions(ctx context.Context) (*serverVersions, error) {
	if c.versions != nil {
		return c.versions, nil
	}
	body, err := c.get(ctx, c.baseURL+"/api/versions")
	if err != nil {
		return nil, err
	}
	var listing serverVersions
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("decode version listing: %w", err)
	}
	c.versions = &listing
	return c.versions, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return body, nil
}

func (c *Client) cachePath(version string) string {
	return filepath.Join(c.cacheDir, "schema-"+version+".json")
}

func (c *Client) readCache(version string) (*schema.Schema, bool) {
	if c.cacheDir == "" {
		return nil, false
	}
	s, err := schema.FromFile(c.cachePath(version))
	if err != nil {
		return nil, false
	}
	return s, true
}

// writeCache stores a fetched schema unless it is a development
// prerelease, whose content changes under the same version string.
func (c *Client) writeCache(s *schema.Schema) {
	if c.cacheDir == "" {
		return
	}
	v, err := semver.NewVersion(s.Version)
	if err != nil || strings.HasPrefix(v.Prerelease(), "dev") {
		return
	}
	if err := os.MkdirAll(c.cacheDir, 0o755); err != nil {
		return
	}
	_ = schema.ToFile(s, c.cachePath(s.Version))
}

func contains(versions []string, version string) bool {
	for _, v := range versions {
		if v == version {
			return true
		}
	}
	return false
}
