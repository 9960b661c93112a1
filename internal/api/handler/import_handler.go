package handler

import (
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/response"
	"github.com/haruhisa-hosei/hosei-content-api/internal/service"

	"github.com/gin-gonic/gin"
)

type ImportHandler struct {
	importSvc service.ImportService
}

func NewImportHandler(importSvc service.ImportService) *ImportHandler {
	return &ImportHandler{
		importSvc: importSvc,
	}
}

// Run GET|POST /import 旧サイトのCSVを冪等に取り込む
func (s *ImportHandler) Run(c *gin.Context) {
	result, err := s.importSvc.Run(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
