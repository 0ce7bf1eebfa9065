package version

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestVersionOption(t *testing.T) {
	set := false
	var out bytes.Buffer
	o := &versionOption{flag: &set, out: &out}
	assert.Error(t, o.Handle())
	assert.Empty(t, out.String())

	set = true
	assert.NoError(t, o.Handle())
	assert.Contains(t, out.String(), "wdals "+Version)
	assert.Contains(t, out.String(), "Git Commit: "+Commit)
}
