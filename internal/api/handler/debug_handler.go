package handler

import (
	"strconv"
	"strings"

	"github.com/haruhisa-hosei/hosei-content-api/internal/api/dto"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/consts"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/debuglog"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type DebugHandler struct{}

func NewDebugHandler() *DebugHandler {
	return &DebugHandler{}
}

// LastLogs GET /debug-last?scope=openai&n=50 スコープ別の直近診断ログ
func (s *DebugHandler) LastLogs(c *gin.Context) {
	scope := strings.ToLower(strings.TrimSpace(c.Query("scope")))
	if scope == "" {
		scope = consts.DebugScopeGeneral
	}
	if !validScope(scope) {
		response.Fail(c, response.BadRequest, "scope が不正です")
		return
	}

	n, _ := strconv.Atoi(c.DefaultQuery("n", "50"))

	lines, err := debuglog.ReadLast(c.Request.Context(), scope, n)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.DebugLogDTO{Scope: scope, Lines: lines})
}

func validScope(scope string) bool {
	for _, s := range debuglog.Scopes() {
		if s == scope {
			return true
		}
	}
	return false
}
