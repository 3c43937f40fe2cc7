// 文件路径: internal/api/handler/health.go
// 模块说明: 健康检查。GET /api/v1/health 返回带服务器毫秒时间戳的统一回复。
package handler

import (
	"net/http"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/creamcroissant/skeleton/internal/replies"
)

// HealthHandler answers liveness probes.
type HealthHandler struct {
	now func() time.Time
}

// NewHealthHandler reads the time from now, or time.Now when nil.
func NewHealthHandler(now func() time.Time) *HealthHandler {
	if now == nil {
		now = time.Now
	}
	return &HealthHandler{now: now}
}

// Routes declares the health endpoints.
func (h *HealthHandler) Routes() []Route {
	return []Route{
		{
			Method:  http.MethodGet,
			Pattern: "/",
			Summary: "Report liveness with the server clock",
			Responses: map[int]*jsonschema.Schema{
				http.StatusOK: replies.HealthQuerySchema,
			},
			Handler: h.Query,
		},
	}
}

// Query replies with the current server time in Unix milliseconds.
func (h *HealthHandler) Query(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, replies.HealthQueried.Reply(replies.HealthQueryPayload{
		Time: h.now().UnixMilli(),
	}))
}
