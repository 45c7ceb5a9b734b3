package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	token, err := Encode(Cursor{BeforeID: 42, CreatedUnix: 1700000000000})
	require.NoError(t, err)

	c, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), c.BeforeID)
	assert.False(t, c.IsZero())

	first, err := Decode("")
	require.NoError(t, err)
	assert.True(t, first.IsZero())

	_, err = Decode("%%%not-base64")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// valid base64, not a cursor
	_, err = Decode("bm90LWpzb24=")
	assert.ErrorIs(t, err, ErrInvalidToken)

	token, err = Encode(Cursor{CreatedUnix: 5, Identity: "bob"})
	require.NoError(t, err)
	c, err = Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "bob", c.Identity)
	assert.False(t, c.IsZero())
}

func TestTrim(t *testing.T) {
	ids := []uint64{9, 8, 7}
	cursorOf := func(id uint64) Cursor { return Cursor{BeforeID: id} }

	page, next := Trim(ids, 2, cursorOf)
	assert.Equal(t, []uint64{9, 8}, page)
	require.NotNil(t, next)

	c, err := Decode(*next)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), c.BeforeID)

	page, next = Trim(ids, 3, cursorOf)
	assert.Len(t, page, 3)
	assert.Nil(t, next)
}
