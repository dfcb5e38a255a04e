package storage

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"image"
	"image/jpeg"
	"net/http"

	// Registered decoders for uploads.
	_ "image/gif"
	_ "image/png"

	"snapshare/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	MasterMaxSize = 2048
	JPEGQuality   = 82
	WebPQuality   = 70
)

// Processed is an upload normalized into its stored encodings.
type Processed struct {
	Hash   string
	Width  int
	Height int
	JPEG   []byte
	WebP   []byte
}

// Process decodes data, bounds it to MasterMaxSize and re-encodes it as JPEG
// and WebP. Re-encoding strips metadata such as EXIF location.
func Process(data []byte) (*Processed, error) {
	if len(data) == 0 {
		return nil, models.NewValidationError("No image uploaded")
	}
	if len(data) > MaxUploadBytes {
		return nil, models.NewValidationError("Image too large (max 10MB)")
	}
	if !isAllowedImageMIME(http.DetectContentType(data)) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	master := resizeToFit(decoded, MasterMaxSize, MasterMaxSize)

	jpg, err := encodeJPEG(master, JPEGQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	wp, err := encodeWebP(master, WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	sum := sha256.Sum256(jpg)
	b := master.Bounds()
	return &Processed{
		Hash:   hex.EncodeToString(sum[:]),
		Width:  b.Dx(),
		Height: b.Dy(),
		JPEG:   jpg,
		WebP:   wp,
	}, nil
}

func isAllowedImageMIME(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 || (w <= maxWidth && h <= maxHeight) {
		return src
	}

	scale := float64(maxWidth) / float64(w)
	if s := float64(maxHeight) / float64(h); s < scale {
		scale = s
	}
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
