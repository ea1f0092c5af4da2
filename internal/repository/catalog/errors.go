package catalog

import "errors"

var ErrCacheMiss = errors.New("cache miss")
