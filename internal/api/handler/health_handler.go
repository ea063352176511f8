package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/country-posts/internal/service"
	"github.com/d60-Lab/country-posts/pkg/response"
)

// Health 存储连通性
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /healthz [get]
func (h *Handler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		response.ServiceUnavailable(c, &service.StorageError{Op: "ping", Err: err})
		return
	}
	response.Success(c, gin.H{"status": "ok"})
}
