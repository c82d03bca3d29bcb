package data_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stake-plus/discord-credcheck/src/credapi/data"
)

func TestHashAccountID(t *testing.T) {
	hexDigest := regexp.MustCompile(`^[0-9a-f]{16}$`)

	h := data.HashAccountID("175928847299117063")
	assert.Regexp(t, hexDigest, h)
	assert.NotContains(t, h, "175928847299117063", "raw id must not appear in the digest")

	assert.Equal(t, h, data.HashAccountID("175928847299117063"), "digest is stable")
	assert.NotEqual(t, h, data.HashAccountID("175928847299117064"), "neighboring ids diverge")
}
