package colleges

import (
	"strconv"

	"github.com/google/uuid"
)

// IDGenerator assigns the synthetic identifier of a new record from the
// source tag and the 1-based input row it was created from.
type IDGenerator func(source string, row int) string

// namespace scopes name-based identifiers to this module.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/agentstation/collegemap"))

// DeterministicID derives a version 5 UUID from the source tag and row, so
// reruns over the same inputs assign the same identifiers.
func DeterministicID(source string, row int) string {
	return uuid.NewSHA1(namespace, []byte(source+":"+strconv.Itoa(row))).String()
}

// RandomID returns a fresh version 4 UUID and ignores its arguments.
func RandomID(string, int) string {
	return uuid.NewString()
}
