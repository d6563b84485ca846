package attendance

import "errors"

var (
	ErrInvalidRecord = errors.New("invalid attendance record")
	ErrInvalidPolicy = errors.New("invalid attendance policy")
)
