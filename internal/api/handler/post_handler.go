package handler

import (
	"github.com/haruhisa-hosei/hosei-content-api/internal/api/dto"
	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/response"
	"github.com/haruhisa-hosei/hosei-content-api/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postSvc service.PostService
}

func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{
		postSvc: postSvc,
	}
}

// List GET /posts?type=news&onlyEnabled=1&limit=20&offset=0
func (s *PostHandler) List(c *gin.Context) {
	var q dto.ListPostsDTO
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, err)
		return
	}

	posts, err := s.postSvc.List(c.Request.Context(), &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

// ListByPathType GET /api/:type 旧サイト互換のエイリアス
func (s *PostHandler) ListByPathType(c *gin.Context) {
	var q dto.ListPostsDTO
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, err)
		return
	}
	q.Type = c.Param("type")

	posts, err := s.postSvc.List(c.Request.Context(), &q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}
