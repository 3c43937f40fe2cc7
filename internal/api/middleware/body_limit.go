// 文件路径: internal/api/middleware/body_limit.go
// 模块说明: 请求体大小限制，超过上限时读取 body 会返回 *http.MaxBytesError。
package middleware

import "net/http"

// DefaultBodyLimit is 1 MiB.
const DefaultBodyLimit int64 = 1 << 20

// BodyLimitConfig 请求体大小限制配置
type BodyLimitConfig struct {
	MaxBytes  int64    // 最大字节数
	SkipPaths []string // 跳过的路径
}

// BodyLimit caps how much of a request body handlers can read.
func BodyLimit(config BodyLimitConfig) func(http.Handler) http.Handler {
	if config.MaxBytes <= 0 {
		config.MaxBytes = DefaultBodyLimit
	}

	skipPaths := make(map[string]bool)
	for _, p := range config.SkipPaths {
		skipPaths[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipPaths[r.URL.Path] || r.Body == nil {
				next.ServeHTTP(w, r)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, config.MaxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
