package service

import (
	"errors"
	"fmt"

	"github.com/d60-Lab/country-posts/internal/repository"
)

// ErrCountryNotFound 与“找到但没有文章”区分
var ErrCountryNotFound = repository.ErrCountryNotFound

// StorageError 存储连接或查询失败，调用方无法在本地恢复
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
