// Package loader fetches sky documents from the remote library.
package loader

import (
	"context"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gincla/nightsky/pkg/errors"
	"github.com/gincla/nightsky/pkg/httputil"
	"github.com/gincla/nightsky/pkg/observability"
	"github.com/gincla/nightsky/pkg/sky"
)

// DefaultBaseURL hosts the published sky documents.
const DefaultBaseURL = "https://raw.githubusercontent.com/gincla/nightsky/master/lib/"

const queryMarker = "?jsonFile="

// JSONFileFromURL extracts the document name from a page URL such as
// "https://host/index.html?jsonFile=sky.json". Everything after the marker
// up to a repeated marker is taken verbatim, without unescaping.
func JSONFileFromURL(pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid page URL")
	}
	return JSONFileFromQuery(u.RawQuery)
}

// JSONFileFromQuery is JSONFileFromURL for a raw query string without the
// leading question mark.
func JSONFileFromQuery(rawQuery string) (string, error) {
	parts := strings.Split("?"+rawQuery, queryMarker)
	if len(parts) < 2 || parts[1] == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "page URL has no jsonFile parameter")
	}
	name := parts[1]
	if err := errors.ValidateResourceName(name); err != nil {
		return "", err
	}
	return name, nil
}

// Fetcher retrieves raw documents by URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Loader resolves document names against a base URL and decodes them.
type Loader struct {
	baseURL string
	fetcher Fetcher
	logger  *log.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithBaseURL overrides DefaultBaseURL. A trailing slash is added if missing.
func WithBaseURL(base string) Option {
	return func(l *Loader) {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		l.baseURL = base
	}
}

// WithFetcher replaces the default HTTP client.
func WithFetcher(f Fetcher) Option {
	return func(l *Loader) { l.fetcher = f }
}

// WithLogger sets the logger. Nil means log.Default.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New returns a loader. The default fetcher makes a single uncached attempt
// with no timeout.
func New(opts ...Option) *Loader {
	l := &Loader{
		baseURL: DefaultBaseURL,
		fetcher: httputil.NewClient(),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// BaseURL returns the base the loader resolves names against.
func (l *Loader) BaseURL() string { return l.baseURL }

// URL returns the address of the named document.
func (l *Loader) URL(jsonFile string) string { return l.baseURL + jsonFile }

// Load fetches <base><jsonFile>, decodes the graph and resolves its links.
func (l *Loader) Load(ctx context.Context, jsonFile string) (g *sky.Graph, err error) {
	start := time.Now()
	observability.Load().OnLoadStart(ctx, jsonFile)
	defer func() {
		nodes, links := 0, 0
		if g != nil {
			nodes, links = g.NodeCount(), g.LinkCount()
		}
		observability.Load().OnLoadComplete(ctx, jsonFile, nodes, links, time.Since(start), err)
	}()

	if err := errors.ValidateResourceName(jsonFile); err != nil {
		return nil, err
	}
	target := l.URL(jsonFile)
	l.logger.Debug("fetching sky", "url", target)

	data, err := l.fetcher.Fetch(ctx, target)
	if err != nil {
		return nil, err
	}
	return decode(data, jsonFile)
}

// LoadFile reads and decodes a local document.
func (l *Loader) LoadFile(path string) (*sky.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	l.logger.Debug("read sky", "path", path, "bytes", len(data))
	return decode(data, path)
}

func decode(data []byte, name string) (*sky.Graph, error) {
	g, err := sky.Unmarshal(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode %s", name)
	}
	if err := g.Resolve(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "resolve %s", name)
	}
	return g, nil
}
