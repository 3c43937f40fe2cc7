// 文件路径: internal/api/middleware/strict_input.go
// 模块说明: 严格输入校验。请求的 query 或 body 里出现路由没有声明的字段时，在 handler 执行之前直接拒绝。
package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/invopop/jsonschema"
	validator "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/creamcroissant/skeleton/internal/support/schema"
)

// Rejection codes written in the error body.
const (
	CodeValidationFailed     = "REQUEST_VALIDATION_FAILED"
	CodeUnsupportedMediaType = "REQUEST_MEDIA_TYPE_UNSUPPORTED"
	CodeBodyTooLarge         = "REQUEST_BODY_TOO_LARGE"
)

// StrictInputConfig selects which request parts must not carry undeclared properties.
type StrictInputConfig struct {
	Body  bool
	Query bool
}

// DefaultStrictInputConfig checks both body and query.
func DefaultStrictInputConfig() StrictInputConfig {
	return StrictInputConfig{Body: true, Query: true}
}

// InputSchemas is what a route declares it accepts.
type InputSchemas struct {
	Query *jsonschema.Schema
	Body  *jsonschema.Schema
}

type inputRejection struct {
	StatusCode int    `json:"statusCode"`
	Code       string `json:"code"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// StrictInput builds the per-route validation middleware. A route without a query schema accepts
// no query parameters; one without a body schema accepts only an empty JSON object.
func StrictInput(config StrictInputConfig, schemas InputSchemas) (func(http.Handler) http.Handler, error) {
	allowedQuery := make(map[string]struct{})
	for _, name := range schema.PropertyNames(schemas.Query) {
		allowedQuery[name] = struct{}{}
	}

	var body *validator.Schema
	if config.Body {
		compiled, err := schema.Compile(schema.Strict(schemas.Body))
		if err != nil {
			return nil, fmt.Errorf("body schema: %w", err)
		}
		body = compiled
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if config.Query {
				for name := range r.URL.Query() {
					if _, ok := allowedQuery[name]; !ok {
						rejectInput(w, http.StatusBadRequest, CodeValidationFailed, "querystring must NOT have additional properties")
						return
					}
				}
			}

			if body != nil && r.Body != nil && r.Body != http.NoBody {
				raw, err := io.ReadAll(r.Body)
				_ = r.Body.Close()
				if err != nil {
					var tooLarge *http.MaxBytesError
					if errors.As(err, &tooLarge) {
						rejectInput(w, http.StatusRequestEntityTooLarge, CodeBodyTooLarge, "request body is too large")
						return
					}
					rejectInput(w, http.StatusBadRequest, CodeValidationFailed, "body could not be read")
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(raw))

				if len(bytes.TrimSpace(raw)) > 0 {
					contentType := r.Header.Get("Content-Type")
					if !isJSONContentType(contentType) {
						rejectInput(w, http.StatusUnsupportedMediaType, CodeUnsupportedMediaType, "unsupported media type: "+contentType)
						return
					}
					if err := schema.ValidateJSON(body, raw); err != nil {
						rejectInput(w, http.StatusBadRequest, CodeValidationFailed, "body "+schema.Describe(err))
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

func isJSONContentType(raw string) bool {
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func rejectInput(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, inputRejection{
		StatusCode: status,
		Code:       code,
		Error:      http.StatusText(status),
		Message:    message,
	})
}
