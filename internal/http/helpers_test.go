package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"megastore/internal/cms"
	"megastore/internal/config"
	"megastore/internal/http/handlers"
	"megastore/internal/repos"
)

const productsJSON = `[
	{"id":1,"documentId":"p1","Name":"Phone Alpha","Price":300,"OldPrice":350,"Category":"smartphones","brand":"Acme","rating":4.5,
	 "specs":{"Screen":"6.1","RAM":"8GB"},"Description":"Fast phone"},
	{"id":2,"documentId":"p2","Name":"Laptop Beta","Price":900,"Category":"laptops","brand":"Zeta","rating":5},
	{"id":3,"documentId":"p3","Name":"Phone Gamma","Price":100,"Category":"smartphones","brand":"Zeta","rating":3},
	{"id":4,"documentId":"p4","Name":"<script>alert(1)</script>","Price":10,"Category":"audio"}
]`

// fakeCMS serves the product endpoints and records orders.
type fakeCMS struct {
	mu          sync.Mutex
	listStatus  int
	orderStatus int
	orders      []map[string]any
	byID        map[string]json.RawMessage
}

func newFakeCMS(t *testing.T) (*fakeCMS, *httptest.Server) {
	t.Helper()
	var items []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(productsJSON), &items))
	f := &fakeCMS{byID: map[string]json.RawMessage{}}
	for _, it := range items {
		var head struct {
			DocumentID string `json:"documentId"`
		}
		require.NoError(t, json.Unmarshal(it, &head))
		f.byID[head.DocumentID] = it
	}

	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeCMS) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/products":
		if f.listStatus != 0 {
			w.WriteHeader(f.listStatus)
			return
		}
		_, _ = io.WriteString(w, `{"data":`+productsJSON+`}`)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/products/"):
		it, ok := f.byID[strings.TrimPrefix(r.URL.Path, "/api/products/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = fmt.Fprintf(w, `{"data":%s}`, it)
	case r.Method == http.MethodPost && r.URL.Path == "/api/orders":
		if f.orderStatus != 0 {
			w.WriteHeader(f.orderStatus)
			return
		}
		var body struct {
			Data map[string]any `json:"data"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.orders = append(f.orders, body.Data)
		_, _ = io.WriteString(w, `{"data":{"id":1}}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeCMS) set(fn func(f *fakeCMS)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeCMS) received() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.orders...)
}

type testApp struct {
	app  *fiber.App
	cms  *fakeCMS
	db   *sqlx.DB
	deps *handlers.Deps
}

func newTestApp(t *testing.T, opts handlers.Options, setup ...func(f *fakeCMS)) testApp {
	t.Helper()
	fake, srv := newFakeCMS(t)
	for _, fn := range setup {
		fake.set(fn)
	}

	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{CatalogAttempts: 1, CMSTimeout: time.Second}
	deps := handlers.NewDeps(db, cms.New(srv.URL, cfg.CMSTimeout), cfg)
	<-deps.Catalog.Start(context.Background())

	opts.TemplatesDir = "../../web/templates"
	opts.StaticDir = "../../web/static"
	return testApp{app: handlers.NewApp(opts, deps), cms: fake, db: db, deps: deps}
}

// browser keeps cookies between requests the way a real one would.
type browser struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

func newBrowser(t *testing.T, app *fiber.App) *browser {
	return &browser{t: t, app: app, cookies: map[string]string{}}
}

func (b *browser) do(req *http.Request) *http.Response {
	b.t.Helper()
	for k, v := range b.cookies {
		req.AddCookie(&http.Cookie{Name: k, Value: v})
	}
	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)
	for _, c := range resp.Cookies() {
		if c.Value != "" {
			b.cookies[c.Name] = c.Value
		}
	}
	return resp
}

func (b *browser) get(path string) *http.Response {
	b.t.Helper()
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// post submits a form, fetching a CSRF token first when none is held.
func (b *browser) post(path string, form url.Values) *http.Response {
	b.t.Helper()
	if b.cookies["csrf_"] == "" {
		b.get("/")
	}
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", b.cookies["csrf_"])
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}
