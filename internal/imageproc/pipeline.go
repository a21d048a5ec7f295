package imageproc

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gen2brain/heic"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp"

	"wayfarer/internal/models"
	"wayfarer/pkg/log"
)

// ConversionResult tags which decode path produced the raster image, so
// callers can log and observe HEIC handling instead of guessing from nested
// error handling.
type ConversionResult int

const (
	// ConversionNone means the input was not a HEIC container.
	ConversionNone ConversionResult = iota
	// Converted means the HEIC decoder produced the raster image.
	Converted
	// FallbackUsed means the HEIC decoder failed and the original bytes were
	// decoded directly as a best-effort degradation.
	FallbackUsed
)

func (c ConversionResult) String() string {
	switch c {
	case Converted:
		return "converted"
	case FallbackUsed:
		return "fallback"
	default:
		return "none"
	}
}

// MIME types accepted as declared by the client.
var allowedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Extensions accepted even when the declared MIME type is unknown; HEIC/HEIF
// uploads from phones usually arrive as application/octet-stream.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".heic": true,
	".heif": true,
}

type Pipeline struct {
	maxSize int64
	quality int
	logger  log.Logger
}

func NewPipeline(maxSize int64, quality int, logger log.Logger) *Pipeline {
	return &Pipeline{
		maxSize: maxSize,
		quality: quality,
		logger:  logger,
	}
}

// Validate rejects uploads before any decoding work. Both the declared type
// and the filename extension are untrusted; either may admit the file.
func (p *Pipeline) Validate(filename, declaredType string, size int64) error {
	if size > p.maxSize {
		return fmt.Errorf("%d bytes exceeds limit of %d: %w", size, p.maxSize, models.ErrFileTooLarge)
	}

	if allowedMIMETypes[strings.ToLower(declaredType)] {
		return nil
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if allowedExtensions[ext] {
		return nil
	}

	return fmt.Errorf("type %q, extension %q: %w", declaredType, ext, models.ErrInvalidFileType)
}

// Normalize turns an accepted upload into a JPEG whose pixel data matches the
// visual orientation. HEIC containers are detected by sniffing the raw bytes,
// never by trusting the declared type.
func (p *Pipeline) Normalize(raw []byte, filename string) ([]byte, ConversionResult, error) {
	img, result, err := p.decode(raw, filename)
	if err != nil {
		return nil, result, err
	}

	// bake the EXIF orientation into the pixels so downstream consumers
	// never need the tag
	img = applyOrientation(img, orientation(raw))

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.quality)); err != nil {
		return nil, result, fmt.Errorf("encode jpeg: %w", err)
	}

	return buf.Bytes(), result, nil
}

func (p *Pipeline) decode(raw []byte, filename string) (image.Image, ConversionResult, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	if IsHEIC(raw) || ext == ".heic" || ext == ".heif" {
		img, err := heic.Decode(bytes.NewReader(raw))
		if err == nil {
			return img, Converted, nil
		}

		p.logger.Warn().Err(err).Str("filename", filename).
			Msg("heic decode failed, attempting direct raster decode")

		img, _, fallbackErr := image.Decode(bytes.NewReader(raw))
		if fallbackErr != nil {
			return nil, FallbackUsed, fmt.Errorf("decode image %s: %w", filename, models.ErrInvalidFileType)
		}

		return img, FallbackUsed, nil
	}

	// double-check what the bytes actually are; a renamed executable with a
	// .png extension must not reach the decoder pool
	detected := mimetype.Detect(raw)
	if !strings.HasPrefix(detected.String(), "image/") {
		return nil, ConversionNone, fmt.Errorf("detected %s: %w", detected.String(), models.ErrInvalidFileType)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ConversionNone, fmt.Errorf("decode image %s: %w", filename, models.ErrInvalidFileType)
	}

	return img, ConversionNone, nil
}

// orientation reads the EXIF orientation tag, defaulting to 1 (upright) when
// the tag or the whole EXIF block is missing.
func orientation(raw []byte) int {
	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	value, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return value
}

func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
