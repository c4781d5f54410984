package ui

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dhamidi/cobertura/coverage"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument() *coverage.Document {
	return &coverage.Document{
		LineRate: 0.5,
		Version:  "1.9",
		Packages: []coverage.Package{{
			Name: "app",
			Classes: []coverage.Class{{
				Name:     "app.Outer$Inner",
				FileName: "app/Outer.java",
				Methods:  []coverage.Method{{Name: "run", Signature: "()V", LineRate: 0.5}},
				Lines:    []coverage.Line{{Number: 1, Hits: 1}, {Number: 2}},
			}},
		}},
	}
}

func get(t *testing.T, h http.Handler, path string) (*http.Response, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	res := rec.Result()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(body)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	renderer, err := NewRenderer("Live", "")
	require.NoError(t, err)
	return NewServer(testDocument(), renderer)
}

func TestIndex(t *testing.T) {
	res, body := get(t, newTestServer(t), "/")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "<title>Live</title>")
	assert.Contains(t, body, `href="/c/app.Outer_Inner"`)
}

func TestClass(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/c/app.Outer_Inner", "/c/app.Outer_Inner.html"} {
		res, body := get(t, s, path)
		assert.Equal(t, http.StatusOK, res.StatusCode, path)
		assert.Contains(t, body, "app/Outer.java", path)
		assert.Contains(t, body, `<script src="/static/class.js"></script>`, path)
	}

	res, _ := get(t, s, "/c/missing")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestStaticAndJSON(t *testing.T) {
	s := newTestServer(t)

	res, body := get(t, s, "/static/class.js")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "classData")

	res, body = get(t, s, "/coverage.json")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	var doc coverage.Document
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	assert.Equal(t, *testDocument(), doc)
}

func TestSetDocument(t *testing.T) {
	s := newTestServer(t)

	doc := testDocument()
	doc.Packages[0].Classes[0].Name = "app.Renamed"
	s.SetDocument(doc)

	res, _ := get(t, s, "/c/app.Renamed")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = get(t, s, "/c/app.Outer_Inner")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	res, _ := get(t, newTestServer(t), "/nope")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
