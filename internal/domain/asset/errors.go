package asset

import "errors"

var (
	ErrAssetRejected      = errors.New("asset rejected")
	ErrStorageUnavailable = errors.New("asset storage unavailable")
)
