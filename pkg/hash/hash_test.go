package hash_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shashiranjanraj/bazar/pkg/hash"
)

func TestMakeAndCheck(t *testing.T) {
	hash.Cost = bcrypt.MinCost
	t.Cleanup(func() { hash.Cost = bcrypt.DefaultCost })

	hashed, err := hash.Make("secret")
	require.NoError(t, err)

	assert.NotEqual(t, "secret", hashed)
	assert.True(t, hash.Check(hashed, "secret"))
	assert.False(t, hash.Check(hashed, "Secret"))
	assert.False(t, hash.NeedsRehash(hashed))
	assert.True(t, hash.NeedsRehash("plain-text"))
}
