package logdex

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AssignsRandomInstanceIDByDefault(t *testing.T) {
	a := New()
	b := New()
	assert.NotEqual(t, uuid.Nil, a.InstanceID())
	assert.NotEqual(t, a.InstanceID(), b.InstanceID())
}

func TestWithInstanceID_Overrides(t *testing.T) {
	want := uuid.New()
	idx := New(WithInstanceID(want))
	assert.Equal(t, want, idx.InstanceID())
}

func TestUpsertAndQuery_EndToEnd(t *testing.T) {
	idx := New()
	level := "ERROR"
	service := "auth"
	id := idx.UpsertLog("login failed", &level, &service)

	results := idx.Query("level:ERROR")
	assert.Contains(t, results, id)

	content, ok := idx.GetContent(id)
	require.True(t, ok)
	assert.Equal(t, "login failed", content)
}

func TestNewFromConfigFile_MissingFileUsesDefaults(t *testing.T) {
	idx, err := NewFromConfigFile("/nonexistent/.logdex.kdl")
	require.NoError(t, err)
	assert.NotNil(t, idx)
}

func TestEncodeDecodeFrame_RoundTrip(t *testing.T) {
	buf := EncodeFull(1, []uint64{10, 20})
	frame, err := DecodeFrame(buf)
	require.NoError(t, err)
	assert.Equal(t, []uint64{10, 20}, frame.Full)
}

func TestRegisterService_IsIdempotent(t *testing.T) {
	idx := New()
	a := idx.RegisterService("auth")
	b := idx.RegisterService("auth")
	assert.Equal(t, a, b)
}
