package core

import (
	"errors"
)

var (
	ErrPackageNotFound  = errors.New("package not found")
	ErrConversionFailed = errors.New("conversion failed")
	ErrUnsupportedMesh  = errors.New("unsupported mesh format")
	ErrMeshNotFound     = errors.New("mesh file not found")
	ErrDuplicateLink    = errors.New("duplicate link name")
	ErrAlreadySetup     = errors.New("viewer already set up")
	ErrNotReady         = errors.New("viewer not set up")
	ErrUnknown          = errors.New("unknown")
)
