package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// categoryHTML renders a category page listing subcats and pages by name.
func categoryHTML(subcats, pages []string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="mw-content-text">`)
	b.WriteString(`<div id="mw-subcategories"><h2>Subcategories</h2>`)
	for _, s := range subcats {
		fmt.Fprintf(&b, `<div><a href="/w/Category:%s">%s</a></div>`, s, strings.ReplaceAll(s, "_", " "))
	}
	b.WriteString(`</div><div id="mw-pages"><h2>Pages in category</h2>`)
	for _, p := range pages {
		fmt.Fprintf(&b, `<li><a href="/w/%s">%s</a></li>`, p, p)
	}
	b.WriteString(`</div></div></body></html>`)
	return b.String()
}

// articleHTML renders an article declaring the given categories.
func articleHTML(title, text string, categories ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<html><head><title>%s - Wiki</title></head><body>`, title)
	fmt.Fprintf(&b, `<h1 id="firstHeading">%s</h1>`, title)
	fmt.Fprintf(&b, `<div id="mw-content-text"><div class="mw-parser-output"><p>%s</p></div></div>`, text)
	b.WriteString(`<div id="catlinks"><div id="mw-normal-catlinks"><a href="/w/Special:Categories">Categories</a>: <ul>`)
	for _, c := range categories {
		fmt.Fprintf(&b, `<li><a href="/w/Category:%s">%s</a></li>`, strings.ReplaceAll(c, " ", "_"), c)
	}
	b.WriteString(`</ul></div></div></body></html>`)
	return b.String()
}

// allPagesHTML renders one Special:AllPages page.
func allPagesHTML(pages ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="mw-allpages-nav"></div><div class="mw-allpages-body"><ul>`)
	for _, p := range pages {
		fmt.Fprintf(&b, `<li><a href="/w/%s">%s</a></li>`, p, p)
	}
	b.WriteString(`</ul></div></body></html>`)
	return b.String()
}

// testWiki is a small wiki served over HTTP:
//
//	Content -> Monsters -> Slayer_monsters
//	Content -> Items
//
// Abyssal_whip declares a category the graph does not file it under.
type testWiki struct {
	server *httptest.Server

	mu   sync.Mutex
	hits map[string]int
}

func newTestWiki(t *testing.T) *testWiki {
	t.Helper()

	pages := map[string]string{
		"/w/Category:Content":         categoryHTML([]string{"Monsters", "Items"}, nil),
		"/w/Category:Monsters":        categoryHTML([]string{"Slayer_monsters"}, []string{"Goblin"}),
		"/w/Category:Slayer_monsters": categoryHTML(nil, []string{"Abyssal_demon"}),
		"/w/Category:Items":           categoryHTML(nil, []string{"Abyssal_whip"}),
		"/w/Category:Leagues":         categoryHTML(nil, []string{"Twisted_bow"}),

		"/w/Goblin":        articleHTML("Goblin", "Goblins are weak monsters.", "Monsters"),
		"/w/Abyssal_demon": articleHTML("Abyssal demon", "Abyssal demons are slayer monsters.", "Slayer monsters"),
		"/w/Abyssal_whip":  articleHTML("Abyssal whip", "The abyssal whip is a weapon.", "Items", "Slayer items"),

		"/w/Special:AllPages": allPagesHTML("Abyssal_demon", "Abyssal_whip", "Goblin", "Zamorak"),
	}

	w := &testWiki{hits: make(map[string]int)}
	w.server = httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		w.mu.Lock()
		w.hits[r.URL.Path]++
		w.mu.Unlock()

		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(rw, r)
			return
		}
		rw.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(rw, body)
	}))
	t.Cleanup(w.server.Close)
	return w
}

func (w *testWiki) url(path string) string {
	return w.server.URL + path
}

func (w *testWiki) hitCount(path string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hits[path]
}

// testEnv is an isolated configuration, graph file and database.
type testEnv struct {
	wiki       *testWiki
	configPath string
	graphPath  string
	dbDir      string
}

func newTestEnv(t *testing.T, extraConfig ...string) *testEnv {
	t.Helper()

	wiki := newTestWiki(t)
	dir := t.TempDir()
	env := &testEnv{
		wiki:       wiki,
		configPath: filepath.Join(dir, ".wikigraph"),
		graphPath:  filepath.Join(dir, "data", "graph.json"),
		dbDir:      filepath.Join(dir, "db"),
	}

	content := "homepage: " + wiki.server.URL + "\n" + strings.Join(extraConfig, "\n") + "\n"
	if err := os.WriteFile(env.configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return env
}

// run executes the root command with args followed by the environment's
// global flags and returns stdout and stderr.
func (e *testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	args = append(args,
		"--config", e.configPath,
		"--graph", e.graphPath,
		"--db-dir", e.dbDir,
	)

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// mustRun is run failing the test on error.
func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()

	stdout, stderr, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("%s: unexpected error: %v\nstderr: %s", strings.Join(args, " "), err, stderr)
	}
	return stdout
}
