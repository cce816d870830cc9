package service

import (
	"context"

	"github.com/ds124wfegd/nutritionist/internal/entity"
	"github.com/ds124wfegd/nutritionist/internal/pkg/processor"
	"github.com/ds124wfegd/nutritionist/internal/pkg/prompt"
)

type AnalysisService interface {
	Analyze(ctx context.Context, input entity.ImageInput) (*entity.AnalysisResult, error)
}

// ModelGateway sends one image and one prompt to the model and returns its text.
type ModelGateway interface {
	Analyze(ctx context.Context, img entity.PreparedImage, prompt string) (string, error)
	ModelName() string
}

type analysisService struct {
	gateway   ModelGateway
	processor processor.ImageProcessor
	prompts   prompt.Builder
}

func NewAnalysisService(gateway ModelGateway, processor processor.ImageProcessor, prompts prompt.Builder) AnalysisService {
	return &analysisService{
		gateway:   gateway,
		processor: processor,
		prompts:   prompts,
	}
}
