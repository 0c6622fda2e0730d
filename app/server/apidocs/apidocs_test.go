package apidocs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpec_IsValid(t *testing.T) {
	spec := Spec()
	require.NoError(t, spec.Validate(context.Background()))

	for _, p := range []string{"/login", "/usuarios", "/usuarios/me", "/usuarios/{id}", "/usuarios/mayores/{edad}"} {
		assert.NotNil(t, spec.Paths.Find(p), p)
	}

	raw, err := spec.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"bearerAuth"`)
}

func newDocServer(opts ...Opts) *echo.Echo {
	e := echo.New()
	e.Pre(Doc("/api", []byte(`{"openapi":"3.0.3"}`), opts...))
	e.GET("/usuarios", func(c echo.Context) error { return c.NoContent(http.StatusTeapot) })
	return e
}

func serve(e *echo.Echo, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestDoc(t *testing.T) {
	e := newDocServer()

	rec := serve(e, "/api/apispec.json")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"openapi":"3.0.3"}`, rec.Body.String())

	rec = serve(e, "/api/apidocs")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-url="/api/apispec.json"`)

	rec = serve(e, "/api")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/api/apidocs", rec.Header().Get(echo.HeaderLocation))

	rec = serve(e, "/usuarios")
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestDoc_Authorizer(t *testing.T) {
	e := newDocServer(WithAuthorizer(BasicAuthorizer("docs-pass")))

	for _, target := range []string{"/api", "/api/apidocs", "/api/apispec.json"} {
		rec := serve(e, target)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
		assert.Equal(t, `Basic realm="apidocs"`, rec.Header().Get(echo.HeaderWWWAuthenticate), target)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/apispec.json", nil)
	req.SetBasicAuth("anyone", "wrong")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/apispec.json", nil)
	req.SetBasicAuth("anyone", "docs-pass")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Routes outside the docs are untouched.
	assert.Equal(t, http.StatusTeapot, serve(e, "/usuarios").Code)
}
