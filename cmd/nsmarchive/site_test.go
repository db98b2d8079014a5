package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const seriesListPage = `<html><body>
<a href="/browse/series/1">Series A</a>
<a href="/browse/consoles/nes">NES</a>
</body></html>`

const seriesAPage = `<html><body>
<section class="game">
	<h3 class="heading">Game X</h3>
	<a href="/browse/consoles/nes" title="NES"><img src="nes.png"></a>
	<ul class="tableList">
		<li class="tableList-row tableList-row--sheet" id="sheet10">
			<div class="tableList-cell tableList-cell--sheetTitle">Title Theme</div>
			<div class="tableList-cell tableList-cell--sheetArranger"><a href="/a/1">Alice</a></div>
		</li>
		<li class="tableList-row tableList-row--sheet" id="sheet11">
			<div class="tableList-cell tableList-cell--sheetTitle">Ending</div>
			<div class="tableList-cell tableList-cell--sheetArranger"></div>
		</li>
	</ul>
</section>
</body></html>`

// testSite is a two-sheet catalog served over httptest.
type testSite struct {
	*httptest.Server

	mu       sync.Mutex
	headers  []string
	failPath string
}

// newTestSite serves series "Series A" with game "Game X" (NES) holding
// sheets 10 and 11. A second, broken series is listed when broken is set.
func newTestSite(t *testing.T, broken bool, failPath string) *testSite {
	t.Helper()

	site := &testSite{failPath: failPath}
	list := seriesListPage
	if broken {
		list = strings.Replace(list, "</body>", `<a href="/browse/series/2">Series B</a></body>`, 1)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/browse/series", func(w http.ResponseWriter, r *http.Request) {
		site.record(r)
		_, _ = w.Write([]byte(list))
	})
	mux.HandleFunc("/browse/series/1", func(w http.ResponseWriter, r *http.Request) {
		site.record(r)
		_, _ = w.Write([]byte(seriesAPage))
	})
	mux.HandleFunc("/browse/series/2", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/download/", func(w http.ResponseWriter, r *http.Request) {
		site.record(r)
		if r.URL.Path == site.failPath {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(strings.TrimPrefix(r.URL.Path, "/download/")))
	})

	site.Server = httptest.NewServer(mux)
	t.Cleanup(site.Close)
	return site
}

func (s *testSite) record(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.headers = append(s.headers, r.Header.Get("X-Archive"))
}

func (s *testSite) sawHeader(v string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.headers {
		if h != v {
			return false
		}
	}
	return len(s.headers) > 0
}

// emptyConfig writes an empty config file so the tests never pick up a
// .nsmarchive from the working or home directory.
func emptyConfig(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
