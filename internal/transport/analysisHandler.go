package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ds124wfegd/nutritionist/internal/entity"
	"github.com/ds124wfegd/nutritionist/internal/pkg/processor"
	"github.com/gin-gonic/gin"
)

const genericFailure = "Failed to generate response. Please try again."

type pageData struct {
	Error    string
	Report   string
	Filename string
	Took     string
}

func (h *AnalysisHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", pageData{})
}

// AnalyzePage handles the form submit and renders the report, or the error, on the upload page.
func (h *AnalysisHandler) AnalyzePage(c *gin.Context) {
	input, result, err := h.analyze(c)
	if err != nil {
		c.HTML(statusFor(err), "index.html", pageData{Error: userMessage(err)})
		return
	}

	c.Header("X-Analysis-ID", result.ID())
	c.HTML(http.StatusOK, "index.html", pageData{
		Report:   result.Text(),
		Filename: input.Filename,
		Took:     fmt.Sprintf("%2.4f", result.Elapsed().Seconds()),
	})
}

func (h *AnalysisHandler) AnalyzeAPI(c *gin.Context) {
	_, result, err := h.analyze(c)
	if err != nil {
		c.JSON(statusFor(err), entity.ErrorResponse{Error: userMessage(err)})
		return
	}

	c.Header("X-Analysis-ID", result.ID())
	c.JSON(http.StatusOK, entity.AnalyzeResponse{
		ID:          result.ID(),
		Report:      result.Text(),
		Model:       result.Model(),
		TookSeconds: result.Elapsed().Seconds(),
	})
}

func (h *AnalysisHandler) analyze(c *gin.Context) (entity.ImageInput, *entity.AnalysisResult, error) {
	input, err := h.readImage(c)
	if err != nil {
		return input, nil, err
	}

	// a client that goes away does not cancel an analysis already in flight
	ctx := context.WithoutCancel(c.Request.Context())

	result, err := h.service.Analyze(ctx, input)
	return input, result, err
}

// readImage returns an empty input when no file was selected, the service reports that case.
func (h *AnalysisHandler) readImage(c *gin.Context) (entity.ImageInput, error) {
	if h.maxUploadBytes > 0 {
		// room for the multipart envelope on top of the image itself
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+64<<10)
	}

	file, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return entity.ImageInput{}, entity.InvalidInput(entity.ErrImageTooLarge)
		}
		return entity.ImageInput{}, nil
	}

	input := entity.ImageInput{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
	}
	if file.Size == 0 {
		return input, nil
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		return input, entity.InvalidInput(entity.ErrImageTooLarge)
	}
	if !processor.IsValidImageType(file.Filename) {
		return input, entity.InvalidInput(entity.ErrUnsupportedImage)
	}

	src, err := file.Open()
	if err != nil {
		return input, entity.InvalidInput(entity.ErrUnreadableImage)
	}
	defer src.Close()

	input.Data, err = io.ReadAll(src)
	if err != nil {
		return input, entity.InvalidInput(entity.ErrUnreadableImage)
	}
	return input, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, entity.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// userMessage never exposes provider error details.
func userMessage(err error) string {
	for _, known := range []error{
		entity.ErrNoImage,
		entity.ErrUnsupportedImage,
		entity.ErrUnreadableImage,
		entity.ErrImageTooLarge,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	if errors.Is(err, entity.ErrInvalidInput) {
		return "The image could not be analyzed. Please try another photo."
	}
	return genericFailure
}
