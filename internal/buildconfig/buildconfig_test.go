package buildconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionInfo(t *testing.T) {
	info := VersionInfo()
	assert.Equal(t, Version(), info["version"])
	assert.Equal(t, Commit(), info["commit"])
	assert.Contains(t, info, "build_date")
	assert.Contains(t, String(), "keml "+Version())
}
