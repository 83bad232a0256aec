// services/hal/internal/halerr/errors.go
package halerr

import "errors"

var (
	// Gate / lifecycle
	ErrNotInitialized = errors.New("hal_not_ready")
	ErrClosed         = errors.New("closed")
	ErrInvalidPeriod  = errors.New("invalid_period")

	// Local validation (raised before any native call)
	ErrInvalidChannel = errors.New("invalid_channel")
	ErrInvalidModule  = errors.New("invalid_module")
)
