package core

import "github.com/google/uuid"

// IdentifierAcquireNewID returns a new random identifier, used to name batches.
func IdentifierAcquireNewID() string {
	return uuid.New().String()
}

// IdentifierIsValid reports whether id was produced by IdentifierAcquireNewID.
func IdentifierIsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
