package codec

import (
	"testing"

	"github.com/standardbeagle/logdex/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFull_StartsWithFullTag(t *testing.T) {
	buf := EncodeFull(42, []uint64{1, 2, 3})
	assert.Equal(t, TagFull, buf[0])
}

func TestEncodeFull_RoundTrip(t *testing.T) {
	buf := EncodeFull(42, []uint64{1, 2, 3})
	frame, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, TagFull, frame.Tag)
	assert.Equal(t, uint64(42), frame.DocID)
	assert.Equal(t, []uint64{1, 2, 3}, frame.Full)
}

func TestEncodeDiff_RoundTrip(t *testing.T) {
	buf := EncodeDiff(7, []uint64{5, 6}, []uint64{9})
	frame, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, TagDiff, frame.Tag)
	assert.Equal(t, uint64(7), frame.DocID)
	assert.Equal(t, []uint64{5, 6}, frame.Removed)
	assert.Equal(t, []uint64{9}, frame.Added)
}

func TestDecode_EmptyBufferIsEof(t *testing.T) {
	_, err := Decode(nil)
	require.Error(t, err)
	var eof *errors.CodecEof
	assert.ErrorAs(t, err, &eof)
}

func TestDecode_TruncatedMidVarintIsEof(t *testing.T) {
	buf := EncodeFull(300, []uint64{1})
	// Tag plus only the first of doc id 300's two varint bytes.
	_, err := Decode(buf[:2])
	require.Error(t, err)
	var eof *errors.CodecEof
	assert.ErrorAs(t, err, &eof)
}

func TestDecode_UnknownTagIsBadTag(t *testing.T) {
	buf := []byte{0xff, 0x01}
	_, err := Decode(buf)
	require.Error(t, err)
	var badTag *errors.CodecBadTag
	assert.ErrorAs(t, err, &badTag)
}

func TestDecode_OverlongVarintIsBadVarint(t *testing.T) {
	buf := make([]byte, 0, 12)
	buf = append(buf, TagFull)
	for i := 0; i < 11; i++ {
		buf = append(buf, 0x80)
	}
	_, err := Decode(buf)
	require.Error(t, err)
	var badVarint *errors.CodecBadVarint
	assert.ErrorAs(t, err, &badVarint)
}

func TestVarintRoundTrip_NeverExceedsTenBytes(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 1 << 32, ^uint64(0)}
	for _, v := range values {
		buf := appendVarint(nil, v)
		assert.LessOrEqual(t, len(buf), maxVarintBytes)

		r := reader{buf: buf}
		got, err := r.readVarint()
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestEncodeFull_EmptyTokenList(t *testing.T) {
	buf := EncodeFull(1, nil)
	frame, err := Decode(buf)
	require.NoError(t, err)
	assert.Empty(t, frame.Full)
}
