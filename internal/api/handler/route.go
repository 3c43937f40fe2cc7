// 文件路径: internal/api/handler/route.go
// 模块说明: 路由声明。每个 handler 用 Route 描述自己的方法、路径、输入 schema 和响应 schema，router 负责挂载。
package handler

import (
	"net/http"

	"github.com/invopop/jsonschema"
)

// Route declares one endpoint relative to the prefix it is mounted under.
type Route struct {
	Method  string
	Pattern string
	Summary string

	// Query and Body declare the accepted input; nil declares none.
	Query *jsonschema.Schema
	Body  *jsonschema.Schema

	// Responses maps status codes to the schema of the body written with them.
	Responses map[int]*jsonschema.Schema

	Handler http.HandlerFunc
}
