// Package buildinfo exposes the version stamped into the binary at link time:
//
//	go build -ldflags "-X github.com/gincla/nightsky/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/gincla/nightsky/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/gincla/nightsky/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Unstamped builds report "dev".
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is served by the HTTP health endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// UserAgent returns "<product>/<version>" for outgoing requests.
func UserAgent(product string) string {
	return product + "/" + Version
}

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}
