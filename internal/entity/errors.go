package entity

import "errors"

var (
	// Input errors, reported before anything leaves the process
	ErrInvalidInput     = errors.New("invalid input")
	ErrNoImage          = errors.New("please upload an image")
	ErrUnsupportedImage = errors.New("unsupported image type, supported: jpg, jpeg, png, webp")
	ErrUnreadableImage  = errors.New("the uploaded file is not a readable image")
	ErrImageTooLarge    = errors.New("the uploaded image is too large")

	// Model errors
	ErrUpstreamUnavailable = errors.New("model service unavailable")
	ErrQuotaExceeded       = errors.New("model quota exceeded")
)

// InvalidInput wraps a specific input error so that it matches ErrInvalidInput as well.
func InvalidInput(err error) error {
	return &kindError{kind: ErrInvalidInput, err: err}
}

type kindError struct {
	kind error
	err  error
}

func (e *kindError) Error() string {
	return e.err.Error()
}

func (e *kindError) Unwrap() []error {
	return []error{e.kind, e.err}
}
