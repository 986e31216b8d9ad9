// Package idgen produces identifiers for new entities.
//
// An id is the current Unix time in milliseconds, base-36 encoded, followed by a
// random base-36 suffix. Ids are unique within a running session with
// overwhelming probability. They are neither globally unique nor sortable.
package idgen

import (
	"strconv"
	"time"

	nanoid "github.com/jaevor/go-nanoid"
)

const (
	alphabet     = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffixLength = 11
)

var suffix func() string

func init() {
	gen, err := nanoid.CustomASCII(alphabet, suffixLength)
	if err != nil {
		panic(err) // constant alphabet, can only fail on a programming error
	}
	suffix = gen
}

// New returns a fresh identifier
func New() string {
	return NewAt(time.Now())
}

// NewAt builds an identifier using t as the time component
func NewAt(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 36) + suffix()
}
