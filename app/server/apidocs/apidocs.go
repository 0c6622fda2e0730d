package apidocs

import (
	"bytes"
	"crypto/subtle"
	"fmt"
	"html/template"
	"net/http"
	"path"
	"slices"

	"github.com/labstack/echo/v4"
)

type Opts func(*config)

// configures the Doc middlewares
type config struct {
	// SpecURL the url to find the spec for
	SpecURL string
	// When this return value is false, 401 with a Basic challenge will be responsed.
	Authorizer func(*http.Request) bool
}

// WithAuthorizer gates the docs pages behind allow.
func WithAuthorizer(allow func(*http.Request) bool) Opts {
	return func(c *config) {
		c.Authorizer = allow
	}
}

// BasicAuthorizer accepts requests carrying password in HTTP Basic
// credentials, any username.
func BasicAuthorizer(password string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		_, given, ok := r.BasicAuth()
		return ok && subtle.ConstantTimeCompare([]byte(given), []byte(password)) == 1
	}
}

func prepare(basePath string, cfg *config) (docPath string, uiHTML string) {
	docPath = path.Join(basePath, "apidocs")

	tmpl := template.Must(template.New("apidoc").Parse(pageTemplate))
	buf := bytes.NewBuffer(nil)
	_ = tmpl.Execute(buf, cfg)

	return docPath, buf.String()
}

// Doc serves the reference UI under basePath/apidocs and apiJSON under
// basePath/apispec.json. Other paths fall through to next.
func Doc(basePath string, apiJSON []byte, opts ...Opts) echo.MiddlewareFunc {
	cfg := &config{
		SpecURL: path.Join(basePath, "apispec.json"),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	docPath, uiHTML := prepare(basePath, cfg)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqPath := c.Request().URL.Path
			if slices.Contains([]string{basePath, docPath, cfg.SpecURL}, reqPath) {
				if cfg.Authorizer != nil && !cfg.Authorizer(c.Request()) {
					c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Basic realm="apidocs"`)
					return c.String(http.StatusUnauthorized, "Unauthorized")
				}

				switch reqPath {
				case docPath:
					return c.HTML(http.StatusOK, uiHTML)
				case cfg.SpecURL:
					return c.JSONBlob(http.StatusOK, apiJSON)
				case basePath:
					return c.Redirect(http.StatusFound, docPath)
				}
			}

			if next == nil {
				return c.String(http.StatusNotFound, fmt.Sprintf("%q not found", reqPath))
			}

			return next(c)
		}
	}
}

const pageTemplate = `
<!DOCTYPE html>
<html lang="en">
  <head>
    <title>API documentation</title>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1" />
  </head>

  <body>
    <script id="api-reference" data-url="{{ .SpecURL }}"></script>

    <script src="https://cdnjs.cloudflare.com/ajax/libs/scalar-api-reference/1.25.99/standalone.min.js" integrity="sha512-ai3lOYZ5efNXMYwnqhz0mnCaImbqfwLE1VCx9Y9nhB3OJX4/uegjIAoQtJHy3SILHp/gS1OlPCIeNFPZT5i2WQ==" crossorigin="anonymous" referrerpolicy="no-referrer"></script>
  </body>
</html>`
