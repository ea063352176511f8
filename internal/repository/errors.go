package repository

import "errors"

// ErrCountryNotFound 国家主键不存在
var ErrCountryNotFound = errors.New("country not found")
