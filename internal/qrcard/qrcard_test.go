package qrcard

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestPNG(t *testing.T) {
	t.Run("renders a png of the requested size", func(t *testing.T) {
		data, err := PNG("https://shop.example.com/qr/A1234", 128)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, pngSignature))

		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 128, img.Bounds().Dx())
	})

	t.Run("uses the default size when none is given", func(t *testing.T) {
		data, err := PNG("A1234", 0)
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, DefaultSize, img.Bounds().Dx())
	})

	t.Run("rejects content too long to encode", func(t *testing.T) {
		_, err := PNG(strings.Repeat("x", 5000), 128)
		assert.Error(t, err)
	})
}

func TestDataURI(t *testing.T) {
	uri, err := DataURI("A1234", 64)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngSignature))
}

func TestEntryURL(t *testing.T) {
	assert.Equal(t, "https://shop.example.com/qr/A1234", EntryURL("https://shop.example.com/", "A1234"))
	assert.Equal(t, "http://localhost:8080/qr/A1234", EntryURL("http://localhost:8080", "A1234"))
}

func TestWalletURL(t *testing.T) {
	assert.Equal(t, "https://wallet.example.com/add?id=A1234", WalletURL("https://wallet.example.com/add", "A1234"))
	assert.Equal(t, "https://wallet.example.com/add?brand=aurana&id=A1234", WalletURL("https://wallet.example.com/add?brand=aurana", "A1234"))
}
