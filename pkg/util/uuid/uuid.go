// Package uuid is the id type of boss bars and entity owners.
package uuid

import (
	"fmt"

	guuid "github.com/google/uuid"
)

// UUID is a 16 byte RFC 4122 id as sent on the wire.
type UUID guuid.UUID

// Nil is the zero UUID.
var Nil = UUID(guuid.Nil)

// New returns a random UUID or panics.
func New() UUID { return UUID(guuid.New()) }

// Parse decodes the dashed or raw hex form of a UUID.
func Parse(s string) (UUID, error) {
	id, err := guuid.Parse(s)
	return UUID(id), err
}

// FromBytes copies the 16 wire bytes b into a UUID.
func FromBytes(b []byte) (UUID, error) {
	id, err := guuid.FromBytes(b)
	return UUID(id), err
}

// String returns the dashed form xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx.
func (i UUID) String() string {
	return guuid.UUID(i).String()
}

// MarshalText implements encoding.TextMarshaler, used by json and yaml.
func (i UUID) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, used by json and yaml.
func (i *UUID) UnmarshalText(b []byte) (err error) {
	id, err := guuid.ParseBytes(b)
	if err != nil {
		return fmt.Errorf("invalid uuid %q: %w", b, err)
	}
	*i = UUID(id)
	return nil
}
