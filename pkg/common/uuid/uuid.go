package uuid

import (
	"github.com/gofrs/uuid/v5"
)

type UUID = uuid.UUID

var Nil = uuid.Nil

func NewV4() UUID {
	return uuid.Must(uuid.NewV4())
}

func FromString(s string) (UUID, error) {
	return uuid.FromString(s)
}

// IsValid reports whether s is a canonical uuid string.
func IsValid(s string) bool {
	id, err := uuid.FromString(s)
	return err == nil && !id.IsNil()
}

type NullUUID = uuid.NullUUID
