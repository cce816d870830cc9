package processor

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/nutritionist/internal/entity"
	"github.com/sirupsen/logrus"

	_ "golang.org/x/image/webp"
)

type ImageProcessor interface {
	Prepare(input entity.ImageInput) (entity.PreparedImage, error)
}

type imageProcessor struct {
	maxDimension int
}

// NewImageProcessor returns a processor that fits photos larger than maxDimension
// on either side into a maxDimension box. Zero disables resizing.
func NewImageProcessor(maxDimension int) ImageProcessor {
	return &imageProcessor{maxDimension: maxDimension}
}

func (p *imageProcessor) Prepare(input entity.ImageInput) (entity.PreparedImage, error) {
	if input.Empty() {
		return entity.PreparedImage{}, entity.InvalidInput(entity.ErrNoImage)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(input.Data))
	if err != nil {
		return entity.PreparedImage{}, entity.InvalidInput(entity.ErrUnreadableImage)
	}
	if !supportedFormats[format] {
		return entity.PreparedImage{}, entity.InvalidInput(entity.ErrUnsupportedImage)
	}

	prepared := entity.PreparedImage{
		Data:     input.Data,
		MIMEType: "image/" + format,
		Format:   format,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}

	if p.maxDimension <= 0 || (cfg.Width <= p.maxDimension && cfg.Height <= p.maxDimension) {
		// full decode to catch truncated files that still carry a valid header
		if _, err := imaging.Decode(bytes.NewReader(input.Data)); err != nil {
			return entity.PreparedImage{}, entity.InvalidInput(entity.ErrUnreadableImage)
		}
		return prepared, nil
	}

	img, err := imaging.Decode(bytes.NewReader(input.Data), imaging.AutoOrientation(true))
	if err != nil {
		return entity.PreparedImage{}, entity.InvalidInput(entity.ErrUnreadableImage)
	}

	resized := imaging.Fit(img, p.maxDimension, p.maxDimension, imaging.Lanczos)

	outFormat, outName := encodingFor(format)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, outFormat, imaging.JPEGQuality(90)); err != nil {
		return entity.PreparedImage{}, fmt.Errorf("failed to encode resized image: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"filename": input.Filename,
		"from":     fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"to":       fmt.Sprintf("%dx%d", resized.Bounds().Dx(), resized.Bounds().Dy()),
	}).Debug("Image resized before analysis")

	prepared.Data = buf.Bytes()
	prepared.Format = outName
	prepared.MIMEType = "image/" + outName
	prepared.Width = resized.Bounds().Dx()
	prepared.Height = resized.Bounds().Dy()
	prepared.Resized = true
	return prepared, nil
}

// formats the model accepts and the decoders registered here can read
var supportedFormats = map[string]bool{
	"jpeg": true,
	"png":  true,
	"webp": true,
}

// encodingFor keeps PNG lossless, everything else (webp has no encoder) goes out as JPEG.
func encodingFor(format string) (imaging.Format, string) {
	if format == "png" {
		return imaging.PNG, "png"
	}
	return imaging.JPEG, "jpeg"
}

// IsValidImageType reports whether the file name carries one of the accepted extensions.
func IsValidImageType(filename string) bool {
	validTypes := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
	}
	return validTypes[strings.ToLower(filepath.Ext(filename))]
}
