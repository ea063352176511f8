package handler

import (
	"github.com/d60-Lab/country-posts/internal/repository"
	"github.com/d60-Lab/country-posts/internal/service"
)

type Handler struct {
	postsService     service.CountryPostsService
	store            repository.ReadStore
	defaultCountryID uint64
}

// NewHandler defaultCountryID 为 GET /users 查询的国家
func NewHandler(postsService service.CountryPostsService, store repository.ReadStore, defaultCountryID uint64) *Handler {
	return &Handler{postsService: postsService, store: store, defaultCountryID: defaultCountryID}
}
