package crypt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircon-store/storefront/pkg/crypt"
)

func TestSealOpenJSON(t *testing.T) {
	box, err := crypt.New("secret")
	require.NoError(t, err)

	sealed, err := box.SealJSON([]string{"a", "b"})
	require.NoError(t, err)

	var out []string
	require.NoError(t, box.OpenJSON(sealed, &out))
	assert.Equal(t, []string{"a", "b"}, out)
}

func TestOpenRejectsOtherKeyAndTampering(t *testing.T) {
	a, _ := crypt.New("one")
	b, _ := crypt.New("two")

	sealed, err := a.SealBytes([]byte("payload"))
	require.NoError(t, err)

	_, err = b.OpenBytes(sealed)
	assert.ErrorIs(t, err, crypt.ErrDecrypt)

	_, err = a.OpenBytes(sealed[:len(sealed)-2] + "AA")
	assert.ErrorIs(t, err, crypt.ErrDecrypt)

	_, err = a.OpenBytes("%%%")
	assert.ErrorIs(t, err, crypt.ErrDecrypt)
}

func TestNewRejectsEmptySecret(t *testing.T) {
	_, err := crypt.New("")
	assert.Error(t, err)
}
