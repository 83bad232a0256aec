//go:build athena

// services/hal/default_athena.go
package hal

import (
	"frchal-go/services/hal/native"
	"frchal-go/services/hal/native/athena"
)

func defaultLib() native.Lib { return athena.Lib{} }
