package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/country-posts/internal/service"
	"github.com/d60-Lab/country-posts/pkg/response"
)

type countryURI struct {
	ID uint64 `uri:"id" binding:"required,min=1"`
}

// ListDefaultCountryPosts 默认国家的全部文章
// @Summary 默认国家的文章（国家 -> 用户 -> 文章）
// @Tags 国家文章
// @Produce json
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 404 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /api/v1/users [get]
func (h *Handler) ListDefaultCountryPosts(c *gin.Context) {
	h.writeCountryPosts(c, h.defaultCountryID)
}

// ListCountryPosts 指定国家的全部文章
// @Summary 指定国家的文章
// @Tags 国家文章
// @Produce json
// @Param id path int true "国家ID"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /api/v1/countries/{id}/posts [get]
func (h *Handler) ListCountryPosts(c *gin.Context) {
	var uri countryURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, validationMessage(err))
		return
	}
	h.writeCountryPosts(c, uri.ID)
}

func (h *Handler) writeCountryPosts(c *gin.Context, countryID uint64) {
	posts, err := h.postsService.ResolvePosts(c.Request.Context(), countryID)
	switch {
	case errors.Is(err, service.ErrCountryNotFound):
		response.NotFound(c, fmt.Sprintf("country %d not found", countryID))
		return
	case service.IsStorageError(err):
		response.ServiceUnavailable(c, err)
		return
	case err != nil:
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"country_id": countryID, "count": len(posts), "posts": posts})
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid country id"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
