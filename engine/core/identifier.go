package core

import "github.com/google/uuid"

// NewIdentifier returns a fresh identifier for scene nodes and mesh buffers.
func NewIdentifier() uuid.UUID {
	return uuid.New()
}
