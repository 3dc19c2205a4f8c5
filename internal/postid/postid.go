// Package postid validates and parses the opaque identifiers that name posts.
//
// Identifiers are the canonical hex encoding of a 12-byte store identity
// (a MongoDB ObjectID). Every storage backend hands out ids in this format,
// so callers never need to know which backend is running.
package postid

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidID is returned by Parse when the raw string is not a well-formed id.
var ErrInvalidID = errors.New("invalid post id")

// ID is the internal representation of a post identifier.
type ID = primitive.ObjectID

// Length is the number of characters in the external form of an id.
const Length = 24

// IsValid reports whether raw is exactly 24 lowercase hex characters.
func IsValid(raw string) bool {
	if len(raw) != Length {
		return false
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// Parse converts raw into an ID. It fails with ErrInvalidID when IsValid
// would return false.
func Parse(raw string) (ID, error) {
	if !IsValid(raw) {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	return id, nil
}

// New returns a fresh, unique identity.
func New() ID {
	return primitive.NewObjectID()
}

// String returns the external form of id.
func String(id ID) string {
	return id.Hex()
}
