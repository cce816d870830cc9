package transport

import (
	"github.com/ds124wfegd/nutritionist/internal/service"
)

type AnalysisHandler struct {
	service        service.AnalysisService
	maxUploadBytes int64
}

func NewAnalysisHandler(service service.AnalysisService, maxUploadBytes int64) *AnalysisHandler {
	return &AnalysisHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}
