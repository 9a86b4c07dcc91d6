package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFull(t *testing.T) {
	assert.True(t, strings.HasPrefix(Full(), "atomx version "))
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	assert.True(t, strings.HasPrefix(ua, "atomx-cli/"))
	assert.Contains(t, ua, "github.com/atomx/atomx-cli")
}
