package uploads

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signaturePNG builds a wide transparent canvas with a dark stroke, like
// the drawing surface produces.
func signaturePNG(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for x := width / 4; x < width/2; x++ {
		img.Set(x, height/2, color.NRGBA{R: 20, G: 20, B: 60, A: 255})
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

type memStorage struct {
	fileName string
	data     []byte
}

func (m *memStorage) Save(fileName string, data []byte) (string, error) {
	m.fileName = fileName
	m.data = append([]byte(nil), data...)
	return "http://localhost:4000/uploads/signatures/" + fileName, nil
}

func TestProcessSignature(t *testing.T) {
	t.Run("WideImageIsDownscaledToJPEG", func(t *testing.T) {
		data, dataURL, err := ProcessSignature(signaturePNG(t, 1200, 400))
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(dataURL, "data:image/jpeg;base64,"))

		img, format, err := image.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, 600, img.Bounds().Dx())
		assert.Equal(t, 200, img.Bounds().Dy())
	})

	t.Run("SmallImageKeepsDimensions", func(t *testing.T) {
		data, _, err := ProcessSignature(signaturePNG(t, 300, 100))
		require.NoError(t, err)

		img, _, err := image.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 300, img.Bounds().Dx())
		assert.Equal(t, 100, img.Bounds().Dy())
	})

	t.Run("TransparentBackgroundFlattensToWhite", func(t *testing.T) {
		data, _, err := ProcessSignature(signaturePNG(t, 200, 80))
		require.NoError(t, err)

		img, err := jpeg.Decode(bytes.NewReader(data))
		require.NoError(t, err)

		// a corner pixel was fully transparent in the source
		r, g, b, _ := img.At(2, 2).RGBA()
		assert.Greater(t, r>>8, uint32(240))
		assert.Greater(t, g>>8, uint32(240))
		assert.Greater(t, b>>8, uint32(240))
	})

	t.Run("PlainBase64WithoutPrefixAccepted", func(t *testing.T) {
		withPrefix := signaturePNG(t, 100, 40)
		bare := strings.TrimPrefix(withPrefix, "data:image/png;base64,")

		_, _, err := ProcessSignature(bare)
		assert.NoError(t, err)
	})

	t.Run("EmptyInputRejected", func(t *testing.T) {
		_, _, err := ProcessSignature("")
		assert.ErrorIs(t, err, ErrEmptySignature)

		_, _, err = ProcessSignature("data:image/png;base64,")
		assert.ErrorIs(t, err, ErrEmptySignature)
	})

	t.Run("GarbageBase64Rejected", func(t *testing.T) {
		_, _, err := ProcessSignature("data:image/png;base64,!!!not-base64!!!")
		assert.Error(t, err)
	})
}

func TestSaveSignature(t *testing.T) {
	store := &memStorage{}
	old := Store
	Store = store
	t.Cleanup(func() { Store = old })

	t.Run("FileNameCarriesFormID", func(t *testing.T) {
		fileURL, dataURL, err := SaveSignature("abc123", signaturePNG(t, 400, 150))
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(store.fileName, "signature_abc123_"))
		assert.True(t, strings.HasSuffix(store.fileName, ".jpg"))
		assert.Contains(t, fileURL, store.fileName)
		assert.True(t, strings.HasPrefix(dataURL, "data:image/jpeg;base64,"))
		assert.NotEmpty(t, store.data)
	})

	t.Run("MissingFormIDUsesPlaceholder", func(t *testing.T) {
		_, _, err := SaveSignature("", signaturePNG(t, 400, 150))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(store.fileName, "signature_unknown_"))
	})
}
