package shortlink

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSalt = "test-salt"

func newCodec(t *testing.T, salt string) *Codec {
	t.Helper()
	c, err := New(salt, DefaultMinLength)
	require.NoError(t, err)
	return c
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func TestRoundTrip(t *testing.T) {
	c := newCodec(t, testSalt)

	for _, id := range []int64{0, 1, 2, 9, 10, 255, 1000, 65535, 1 << 31, 1<<53 + 7} {
		token, err := c.Encode(id)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(token), DefaultMinLength, "token %q for id %d", token, id)
		assert.True(t, isAlphanumeric(token), "token %q is not alphanumeric", token)

		got, ok := c.Decode(token)
		require.True(t, ok, "decode %q", token)
		assert.Equal(t, id, got)
	}
}

func TestEncodeIsStable(t *testing.T) {
	a := newCodec(t, testSalt)
	b := newCodec(t, testSalt)

	for id := int64(0); id < 500; id++ {
		first, err := a.Encode(id)
		require.NoError(t, err)
		second, err := a.Encode(id)
		require.NoError(t, err)
		other, err := b.Encode(id)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, first, other)
	}
}

func TestCollisionFree(t *testing.T) {
	c := newCodec(t, testSalt)

	seen := make(map[string]int64, 100001)
	for id := int64(0); id <= 100000; id++ {
		token, err := c.Encode(id)
		require.NoError(t, err)
		if prev, dup := seen[token]; dup {
			t.Fatalf("ids %d and %d both encode to %q", prev, id, token)
		}
		seen[token] = id

		got, ok := c.Decode(token)
		if !ok || got != id {
			t.Fatalf("round trip failed for %d: got %d ok=%v", id, got, ok)
		}
	}
}

func TestDecodeRejectsForeignTokens(t *testing.T) {
	c := newCodec(t, testSalt)
	other := newCodec(t, "another-salt")

	token, err := other.Encode(42)
	require.NoError(t, err)
	if got, ok := c.Decode(token); ok && got == 42 {
		t.Fatalf("token from a different salt decoded to the same id")
	}

	multi, err := c.h.EncodeInt64([]int64{1, 2})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "whitespace", token: "   "},
		{name: "bad characters", token: "ab-_!"},
		{name: "non ascii", token: "тест"},
		{name: "multiple numbers", token: multi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := c.Decode(tt.token)
			assert.False(t, ok)
		})
	}
}

func TestEncodeNegative(t *testing.T) {
	c := newCodec(t, testSalt)
	_, err := c.Encode(-1)
	assert.True(t, errors.Is(err, ErrNegativeID))
}

func TestMinLengthFallback(t *testing.T) {
	c, err := New(testSalt, 0)
	require.NoError(t, err)
	token, err := c.Encode(1)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(token), DefaultMinLength)

	longer, err := New(testSalt, 8)
	require.NoError(t, err)
	token, err = longer.Encode(1)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(token), 8)
}

func TestLink(t *testing.T) {
	c := newCodec(t, testSalt)
	token, err := c.Encode(15)
	require.NoError(t, err)

	link, err := c.Link("https://foodgram.example/", 15)
	require.NoError(t, err)
	assert.Equal(t, "https://foodgram.example/s/"+token, link)

	rel, err := c.Link("", 15)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "/s/"))
}
