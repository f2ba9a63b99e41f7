package uploads

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	_ "image/gif"
	_ "image/png"

	"Backend-Claim3000/src/config"

	"github.com/google/uuid"
)

// Signature images arrive as raster data URLs from the drawing surface.
// They are composited onto white (the canvas is transparent), downscaled
// to a bounded width and re-encoded as quality-75 JPEG so the inline copy
// stays well under 100KB.
const (
	maxSignatureWidth = 600
	jpegQuality       = 75
)

var dataURLPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

var ErrEmptySignature = errors.New("empty signature data")

// Storage persists a processed signature and returns a publicly-fetchable
// URL.
type Storage interface {
	Save(fileName string, data []byte) (string, error)
}

// DiskStorage writes under the uploads dir served statically by the app.
type DiskStorage struct {
	Dir     string
	BaseURL string
}

func (s DiskStorage) Save(fileName string, data []byte) (string, error) {
	dir := filepath.Join(s.Dir, "signatures")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, fileName), data, 0o644); err != nil {
		return "", err
	}
	return s.BaseURL + "/uploads/signatures/" + fileName, nil
}

// Store is the active storage backend, wired at startup.
var Store Storage

// ProcessSignature decodes a base64 image, flattens it onto a white
// background, downscales and re-encodes it. Returns the JPEG bytes and
// the matching data URL for inline storage.
func ProcessSignature(signatureBase64 string) ([]byte, string, error) {
	trimmed := dataURLPrefix.ReplaceAllString(strings.TrimSpace(signatureBase64), "")
	if trimmed == "" {
		return nil, "", ErrEmptySignature
	}

	raw, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, "", fmt.Errorf("decode signature base64: %w", err)
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("decode signature image: %w", err)
	}

	flattened := flattenOnWhite(src)
	scaled := downscale(flattened, maxSignatureWidth)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", err
	}

	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	return buf.Bytes(), dataURL, nil
}

// SaveSignature processes and uploads a signature for a form. The
// returned file URL is durable; the data URL is the compact inline copy.
func SaveSignature(formID, signatureBase64 string) (fileURL, dataURL string, err error) {
	data, dataURL, err := ProcessSignature(signatureBase64)
	if err != nil {
		return "", "", err
	}

	if formID == "" {
		formID = "unknown"
	}
	fileName := fmt.Sprintf("signature_%s_%s.jpg", formID, uuid.NewString())

	store := Store
	if store == nil {
		store = DiskStorage{Dir: config.UploadDir, BaseURL: config.AppBaseURL}
	}

	fileURL, err = store.Save(fileName, data)
	if err != nil {
		return "", dataURL, err
	}
	return fileURL, dataURL, nil
}

// flattenOnWhite draws the (possibly transparent) source over a white
// background so ink strokes keep their contrast after JPEG encoding.
func flattenOnWhite(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)
	return dst
}

// downscale shrinks to maxWidth preserving aspect ratio using box
// averaging. Images already within bounds pass through untouched.
func downscale(src *image.RGBA, maxWidth int) *image.RGBA {
	sw := src.Bounds().Dx()
	sh := src.Bounds().Dy()
	if sw <= maxWidth {
		return src
	}

	dw := maxWidth
	dh := sh * maxWidth / sw
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	for y := 0; y < dh; y++ {
		sy0 := y * sh / dh
		sy1 := (y + 1) * sh / dh
		if sy1 <= sy0 {
			sy1 = sy0 + 1
		}
		for x := 0; x < dw; x++ {
			sx0 := x * sw / dw
			sx1 := (x + 1) * sw / dw
			if sx1 <= sx0 {
				sx1 = sx0 + 1
			}

			var r, g, b, a, n uint32
			for sy := sy0; sy < sy1; sy++ {
				for sx := sx0; sx < sx1; sx++ {
					i := src.PixOffset(sx, sy)
					r += uint32(src.Pix[i])
					g += uint32(src.Pix[i+1])
					b += uint32(src.Pix[i+2])
					a += uint32(src.Pix[i+3])
					n++
				}
			}
			j := dst.PixOffset(x, y)
			dst.Pix[j] = uint8(r / n)
			dst.Pix[j+1] = uint8(g / n)
			dst.Pix[j+2] = uint8(b / n)
			dst.Pix[j+3] = uint8(a / n)
		}
	}
	return dst
}
