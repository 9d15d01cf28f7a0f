// Package sampledata embeds a miniature copy of the open event data layout
// so the pipeline can run against a local HTTP server without network
// access. The file layout mirrors the upstream repository: competitions at
// the root, matches keyed by competition and season, events keyed by match.
package sampledata

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed data
var content embed.FS

// FS returns the embedded data tree rooted at the data directory.
func FS() fs.FS {
	sub, err := fs.Sub(content, "data")
	if err != nil {
		// The data directory is compiled in; a failure here means a
		// broken build, not a runtime condition.
		panic(err)
	}
	return sub
}

// Handler serves the embedded tree over HTTP.
func Handler() http.Handler {
	return http.FileServer(http.FS(FS()))
}

// MatchIDs returns the match ids with embedded event files.
func MatchIDs() []int {
	return []int{7298, 7502}
}
