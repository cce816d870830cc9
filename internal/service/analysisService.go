package service

import (
	"context"
	"errors"
	"time"

	"github.com/ds124wfegd/nutritionist/internal/entity"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func (s *analysisService) Analyze(ctx context.Context, input entity.ImageInput) (*entity.AnalysisResult, error) {
	id := uuid.New().String()
	entry := logrus.WithFields(logrus.Fields{
		"analysis_id": id,
		"filename":    input.Filename,
		"bytes":       len(input.Data),
	})

	if input.Empty() {
		entry.Warn("Analysis requested without an image")
		return nil, entity.InvalidInput(entity.ErrNoImage)
	}

	img, err := s.processor.Prepare(input)
	if err != nil {
		entry.WithError(err).Warn("Image rejected")
		return nil, err
	}

	start := time.Now()
	text, err := s.gateway.Analyze(ctx, img, s.prompts.Build())
	elapsed := time.Since(start)

	entry = entry.WithFields(logrus.Fields{
		"mime":     img.MIMEType,
		"resized":  img.Resized,
		"model":    s.gateway.ModelName(),
		"duration": elapsed,
	})
	if err != nil {
		entry.WithError(err).WithField("kind", ErrorKind(err)).Error("Analysis failed")
		return nil, err
	}

	entry.Info("Analysis completed")
	return entity.NewAnalysisResult(id, text, s.gateway.ModelName(), elapsed), nil
}

// ErrorKind names the failure category for logs and API responses.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, entity.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, entity.ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, entity.ErrUpstreamUnavailable):
		return "upstream_unavailable"
	default:
		return "internal"
	}
}
