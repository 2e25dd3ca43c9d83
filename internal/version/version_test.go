package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullInfo_ContainsVersionAndCommit(t *testing.T) {
	info := FullInfo()
	assert.Contains(t, info, Version)
	assert.Contains(t, info, GitCommit)
}
