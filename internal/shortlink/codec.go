// Package shortlink maps recipe ids to short salted tokens and back.
//
// Tokens are hashids over the alphanumeric alphabet. Changing the salt
// invalidates every link issued before the change.
package shortlink

import (
	"errors"
	"fmt"
	"strings"

	"github.com/speps/go-hashids/v2"
)

// DefaultMinLength is the minimum token length used when none is configured.
const DefaultMinLength = 4

// PathPrefix is the route segment short links are served under.
const PathPrefix = "/s/"

// ErrNegativeID is returned by Encode for ids below zero.
var ErrNegativeID = errors.New("shortlink: id must be non-negative")

// Codec encodes and decodes ids for a single salt. It is safe for concurrent use.
type Codec struct {
	h *hashids.HashID
}

// New builds a codec for salt. minLength <= 0 falls back to DefaultMinLength.
func New(salt string, minLength int) (*Codec, error) {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = minLength

	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("shortlink: init hashids: %w", err)
	}
	return &Codec{h: h}, nil
}

// Encode returns the token for id. The same id and salt always give the same token.
func (c *Codec) Encode(id int64) (string, error) {
	if id < 0 {
		return "", ErrNegativeID
	}
	token, err := c.h.EncodeInt64([]int64{id})
	if err != nil {
		return "", fmt.Errorf("shortlink: encode %d: %w", id, err)
	}
	return token, nil
}

// Decode returns the id behind token. ok is false when token was not produced
// by Encode with this codec's salt.
func (c *Codec) Decode(token string) (id int64, ok bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, false
	}
	ids, err := c.h.DecodeInt64WithError(token)
	if err != nil || len(ids) != 1 || ids[0] < 0 {
		return 0, false
	}
	return ids[0], true
}

// Link returns "<base>/s/<token>" for id. An empty base yields a relative link.
func (c *Codec) Link(base string, id int64) (string, error) {
	token, err := c.Encode(id)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(strings.TrimSpace(base), "/") + PathPrefix + token, nil
}
