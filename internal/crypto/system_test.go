package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestSystemKeyring(t *testing.T) {
	keyring.MockInit()
	k := &systemKeyring{service: ServiceName}

	assert.True(t, k.IsAvailable())

	_, err := k.GetKey()
	assert.ErrorIs(t, err, keyring.ErrNotFound)

	assert.Error(t, k.SetKey(""))
	require.NoError(t, k.SetKey("s3cret"))

	key, err := k.GetKey()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", key)

	require.NoError(t, k.DeleteKey())
	_, err = k.GetKey()
	assert.Error(t, err)
}
