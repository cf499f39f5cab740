package blob

import "errors"

var (
	ErrInvalidConfig      = errors.New("blob: invalid storage configuration")
	ErrFailedToLoadConfig = errors.New("blob: failed to load AWS configuration")
)
