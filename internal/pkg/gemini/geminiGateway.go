// Package gemini forwards a meal photo and the instruction text to Google Gemini
// and returns the generated report untouched.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ds124wfegd/nutritionist/config"
	"github.com/ds124wfegd/nutritionist/internal/entity"
	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Model is the part of *genai.GenerativeModel the gateway needs.
type Model interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type Gateway struct {
	model     Model
	modelName string
	client    *genai.Client
}

// NewGateway creates the Gemini client. No request is made until Analyze is called.
func NewGateway(ctx context.Context, cfg config.GeminiConfig) (*Gateway, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, config.ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Gateway{
		model:     client.GenerativeModel(cfg.Model),
		modelName: cfg.Model,
		client:    client,
	}, nil
}

func NewGatewayWithModel(model Model, modelName string) *Gateway {
	return &Gateway{model: model, modelName: modelName}
}

func (g *Gateway) ModelName() string {
	return g.modelName
}

func (g *Gateway) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// Analyze makes exactly one model call. There is no retry: every failure goes back to the caller
// as ErrInvalidInput, ErrQuotaExceeded or ErrUpstreamUnavailable.
func (g *Gateway) Analyze(ctx context.Context, img entity.PreparedImage, prompt string) (string, error) {
	if len(img.Data) == 0 {
		return "", entity.InvalidInput(entity.ErrNoImage)
	}

	logrus.WithFields(logrus.Fields{
		"model": g.modelName,
		"mime":  img.MIMEType,
		"bytes": len(img.Data),
	}).Debug("Sending image to model")

	resp, err := g.model.GenerateContent(ctx,
		genai.ImageData(img.Format, img.Data),
		genai.Text(prompt),
	)
	if err != nil {
		return "", classify(err)
	}

	text, ok := responseText(resp)
	if !ok {
		return "", fmt.Errorf("%w: model returned no text", entity.ErrUpstreamUnavailable)
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", false
	}

	var sb strings.Builder
	found := false
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
			found = true
		}
	}
	return sb.String(), found
}

func classify(err error) error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return fmt.Errorf("%w: %w", entity.ErrInvalidInput, err)
	}

	code := httpCode(err)
	grpcCode := status.Code(err)

	switch {
	case code == http.StatusTooManyRequests || grpcCode == codes.ResourceExhausted:
		return fmt.Errorf("%w: %w", entity.ErrQuotaExceeded, err)
	case code == http.StatusBadRequest || grpcCode == codes.InvalidArgument:
		return fmt.Errorf("%w: %w", entity.ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: %w", entity.ErrUpstreamUnavailable, err)
	}
}

func httpCode(err error) int {
	var ae *apierror.APIError
	if errors.As(err, &ae) && ae.HTTPCode() > 0 {
		return ae.HTTPCode()
	}
	var ge *googleapi.Error
	if errors.As(err, &ge) {
		return ge.Code
	}
	return 0
}
