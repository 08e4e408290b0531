package util

import (
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
)

// NewUUID returns a random UUID encoded in base58, the form used for document IDs.
func NewUUID() string {
	id := uuid.New()
	return base58.Encode(id[:])
}
