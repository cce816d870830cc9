package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ds124wfegd/nutritionist/internal/entity"
	"github.com/ds124wfegd/nutritionist/internal/pkg/processor"
	"github.com/ds124wfegd/nutritionist/internal/pkg/prompt"
	"github.com/ds124wfegd/nutritionist/internal/service"
	"github.com/ds124wfegd/nutritionist/internal/transport/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mealReport = "Food items: rice, chicken... Health rating: 7/10"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logrus.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type fakeGateway struct {
	calls   int
	prompts []string
	text    string
	err     error
}

func (g *fakeGateway) Analyze(_ context.Context, _ entity.PreparedImage, p string) (string, error) {
	g.calls++
	g.prompts = append(g.prompts, p)
	return g.text, g.err
}

func (g *fakeGateway) ModelName() string {
	return "fake-model"
}

func newTestRouter(t *testing.T, gw *fakeGateway, maxUploadBytes int64) *gin.Engine {
	t.Helper()
	svc := service.NewAnalysisService(gw, processor.NewImageProcessor(1024), prompt.NewBuilder())
	router, err := InitRoutes(NewAnalysisHandler(svc, maxUploadBytes))
	require.NoError(t, err)
	return router
}

func mealJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 400, 300))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 230, G: 200, B: 120, A: 255}}, image.Point{}, draw.Src)
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

// uploadRequest builds a multipart form; an empty filename mimics a submit with no file selected.
func uploadRequest(t *testing.T, target, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if filename != "" {
		part, err := writer.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestIndexPage(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{}, 0)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Nutritionist's Corner")
	assert.Contains(t, w.Body.String(), `name="image"`)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestAnalyzePageShowsReportVerbatim(t *testing.T) {
	gw := &fakeGateway{text: mealReport}
	router := newTestRouter(t, gw, 10<<20)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "/analyze", "meal.jpg", mealJPEG(t)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), mealReport)
	assert.Contains(t, w.Body.String(), "Took: ")
	assert.NotEmpty(t, w.Header().Get("X-Analysis-ID"))
	assert.Equal(t, 1, gw.calls)
	assert.Equal(t, prompt.Nutritionist, gw.prompts[0])
}

func TestAnalyzePageWithoutFile(t *testing.T) {
	gw := &fakeGateway{text: mealReport}
	router := newTestRouter(t, gw, 10<<20)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "/analyze", "", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "please upload an image")
	assert.NotContains(t, w.Body.String(), mealReport)
	assert.Equal(t, 0, gw.calls)
}

func TestAnalyzePageRejectsBadUploads(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		data       []byte
		maxUpload  int64
		wantStatus int
		wantText   string
	}{
		{
			name:       "empty file",
			filename:   "meal.jpg",
			data:       []byte{},
			maxUpload:  10 << 20,
			wantStatus: http.StatusBadRequest,
			wantText:   "please upload an image",
		},
		{
			name:       "unsupported extension",
			filename:   "meal.gif",
			data:       []byte("GIF89a"),
			maxUpload:  10 << 20,
			wantStatus: http.StatusBadRequest,
			wantText:   "unsupported image type",
		},
		{
			name:       "not an image",
			filename:   "meal.jpg",
			data:       []byte("this is a text file"),
			maxUpload:  10 << 20,
			wantStatus: http.StatusBadRequest,
			wantText:   "not a readable image",
		},
		{
			name:       "too large",
			filename:   "meal.jpg",
			data:       bytes.Repeat([]byte{0xff}, 4096),
			maxUpload:  1024,
			wantStatus: http.StatusRequestEntityTooLarge,
			wantText:   "too large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{text: mealReport}
			router := newTestRouter(t, gw, tt.maxUpload)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, uploadRequest(t, "/analyze", tt.filename, tt.data))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantText)
			assert.Equal(t, 0, gw.calls)
		})
	}
}

func TestAnalyzePageGatewayFailure(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "upstream unavailable", err: entity.ErrUpstreamUnavailable, wantStatus: http.StatusBadGateway},
		{name: "quota exceeded", err: entity.ErrQuotaExceeded, wantStatus: http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{text: "half a report", err: tt.err}
			router := newTestRouter(t, gw, 10<<20)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, uploadRequest(t, "/analyze", "meal.jpg", mealJPEG(t)))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), genericFailure)
			assert.NotContains(t, w.Body.String(), "half a report")
			assert.Equal(t, 1, gw.calls)
		})
	}
}

func TestAnalyzeAPI(t *testing.T) {
	report := "Food items: <rice> & \"chicken\"\nHealth rating: 7/10"
	gw := &fakeGateway{text: report}
	router := newTestRouter(t, gw, 10<<20)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "/api/analyze", "meal.jpg", mealJPEG(t)))

	require.Equal(t, http.StatusOK, w.Code)

	var resp entity.AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, report, resp.Report)
	assert.Equal(t, "fake-model", resp.Model)
	assert.Equal(t, w.Header().Get("X-Analysis-ID"), resp.ID)
	assert.Equal(t, 1, gw.calls)
}

func TestAnalyzeAPIErrors(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		gwErr      error
		wantStatus int
		wantError  string
		wantCalls  int
	}{
		{
			name:       "no file",
			wantStatus: http.StatusBadRequest,
			wantError:  "please upload an image",
			wantCalls:  0,
		},
		{
			name:       "provider rejected the image",
			filename:   "meal.jpg",
			gwErr:      entity.ErrInvalidInput,
			wantStatus: http.StatusBadRequest,
			wantError:  "The image could not be analyzed. Please try another photo.",
			wantCalls:  1,
		},
		{
			name:       "quota",
			filename:   "meal.jpg",
			gwErr:      entity.ErrQuotaExceeded,
			wantStatus: http.StatusTooManyRequests,
			wantError:  genericFailure,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{text: mealReport, err: tt.gwErr}
			router := newTestRouter(t, gw, 10<<20)

			var data []byte
			if tt.filename != "" {
				data = mealJPEG(t)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, uploadRequest(t, "/api/analyze", tt.filename, data))

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp entity.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantError, resp.Error)
			assert.Equal(t, tt.wantCalls, gw.calls)
		})
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{}, 0)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"nutritionist"}`, w.Body.String())
}

func TestStaticAssets(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{}, 0)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ".report pre")
}
