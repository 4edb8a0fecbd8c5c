package generate

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"path/filepath"
	"strings"

	// decoders for the relevant raster formats
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	xdraw "golang.org/x/image/draw"

	"github.com/moodlist/backend/models"
)

const (
	// MaxImageBytes is the ceiling the music service enforces on playlist
	// cover payloads.
	MaxImageBytes = 256 * 1024

	compressionBox     = 500
	compressionQuality = 80
	qualityStep        = 10
	qualityFloor       = 20
)

// cameraNativeExts are still-image formats produced by cameras and phones.
// No decoder for them is registered here, so they are recognized only to
// reject the upload with a message naming the format and the fix.
var cameraNativeExts = map[string]bool{
	".heic": true,
	".heif": true,
	".dng":  true,
	".cr2":  true,
	".nef":  true,
	".arw":  true,
}

// Normalized is a byte payload guaranteed to be JPEG or PNG encoded and at
// or under MaxImageBytes. It belongs to the generation run that produced it.
type Normalized struct {
	Data        []byte
	ContentType string
}

// Normalize converts rawImage into a compliant cover payload. Inputs that are
// already JPEG or PNG at or under the size ceiling are returned unchanged.
// Other decodable encodings (gif, webp, bmp, tiff) are re-encoded as JPEG even
// when they fit under the ceiling, since the remote cover endpoint takes JPEG
// only; oversized payloads are additionally scaled into a 500x500 bounding
// box. Camera-native formats such as HEIC cannot be decoded here and are
// rejected with a message telling the client to export JPEG or PNG instead.
func Normalize(rawImage []byte, fileName string) (*Normalized, error) {
	if len(rawImage) == 0 {
		return nil, fmt.Errorf("%w: empty image payload", models.ErrValidation)
	}

	contentType := http.DetectContentType(rawImage)
	if (contentType == "image/jpeg" || contentType == "image/png") && len(rawImage) <= MaxImageBytes {
		return &Normalized{Data: rawImage, ContentType: contentType}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(rawImage))
	if err != nil {
		ext := strings.ToLower(filepath.Ext(fileName))
		if cameraNativeExts[ext] {
			return nil, fmt.Errorf("%w: no decoder for %s; export the photo as jpeg or png and retry", models.ErrUnsupportedFormat, ext)
		}
		return nil, fmt.Errorf("%w: %v", models.ErrUnsupportedFormat, err)
	}

	if len(rawImage) > MaxImageBytes {
		img = scaleToFit(img, compressionBox)
	}

	data, err := encodeJPEGUnderLimit(img)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCompression, err)
	}

	return &Normalized{Data: data, ContentType: "image/jpeg"}, nil
}

// scaleToFit shrinks img so both dimensions fit within box pixels, keeping
// the aspect ratio. Images already within the box are returned as-is.
func scaleToFit(img image.Image, box int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width <= box && height <= box {
		return img
	}

	scale := float64(box) / float64(width)
	if height > width {
		scale = float64(box) / float64(height)
	}

	dst := image.NewRGBA(image.Rect(0, 0, int(float64(width)*scale), int(float64(height)*scale)))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)

	return dst
}

// encodeJPEGUnderLimit encodes img at the target quality, stepping quality
// down until the payload fits under MaxImageBytes.
func encodeJPEGUnderLimit(img image.Image) ([]byte, error) {
	for quality := compressionQuality; quality >= qualityFloor; quality -= qualityStep {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}

		if buf.Len() <= MaxImageBytes {
			return buf.Bytes(), nil
		}
	}

	return nil, fmt.Errorf("payload over %d bytes at quality floor", MaxImageBytes)
}
