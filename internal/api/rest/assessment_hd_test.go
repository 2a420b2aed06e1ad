package rest

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	app "posture-bot/internal/application"
	"posture-bot/internal/domain/entity"
	"posture-bot/internal/infrastructure/metrics"
	"posture-bot/internal/infrastructure/storage"
	"posture-bot/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type stubEstimator struct {
	set *entity.LandmarkSet
	err error
}

func (s stubEstimator) Estimate(_ context.Context, _ []byte, _ entity.View) (*entity.LandmarkSet, error) {
	return s.set, s.err
}

const frontBody = `{
	"image_width": 1000,
	"image_height": 1000,
	"points": [
		{"point": "LEFT_EAR", "x": 0.45, "y": 0.12},
		{"point": "RIGHT_EAR", "x": 0.55, "y": 0.12},
		{"point": "LEFT_SHOULDER", "x": 0.35, "y": 0.3, "visibility": 0.9},
		{"point": "RIGHT_SHOULDER", "x": 0.65, "y": 0.3},
		{"point": "LHP", "x": 0.4, "y": 0.55},
		{"point": "RHP", "x": 0.6, "y": 0.55},
		{"point": "LEFT_KNEE", "x": 0.38, "y": 0.75},
		{"point": "RIGHT_KNEE", "x": 0.62, "y": 0.75},
		{"point": "LEFT_ANKLE", "x": 0.3, "y": 0.9},
		{"point": "RIGHT_ANKLE", "x": 0.7, "y": 0.9},
		{"point": "NOSE", "x": 0.5, "y": 0.1}
	]
}`

func newTestServer(t *testing.T, estimator *stubEstimator) *fiber.App {
	t.Helper()
	logger := log.Discard()
	reg := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(reg)

	var svc *app.AssessmentService
	if estimator != nil {
		svc = app.NewAssessmentService(storage.NewMemoryAssessmentRepository(), estimator, nil, recorder, logger)
	} else {
		svc = app.NewAssessmentService(storage.NewMemoryAssessmentRepository(), nil, nil, recorder, logger)
	}

	return NewServer(logger, svc, Options{
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		Gatherer:       reg,
		Recorder:       recorder,
	})
}

func do(t *testing.T, srv *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func createAssessment(t *testing.T, srv *fiber.App) entity.Assessment {
	t.Helper()
	resp, body := do(t, srv, http.MethodPost, "/api/v1/assessments", `{"user_id": 7}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))

	var a entity.Assessment
	require.NoError(t, json.Unmarshal(body, &a))
	require.NotEmpty(t, a.ID)
	require.Equal(t, int64(7), a.UserID)
	return a
}

func TestAssessmentHandler_Flow(t *testing.T) {
	srv := newTestServer(t, nil)
	a := createAssessment(t, srv)

	resp, body := do(t, srv, http.MethodPut, "/api/v1/assessments/"+a.ID+"/landmarks/front", frontBody)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	var updated entity.Assessment
	require.NoError(t, json.Unmarshal(body, &updated))
	require.NotNil(t, updated.Front)
	require.True(t, updated.Front.Has(entity.JugularNotch))
	require.True(t, updated.Front.Has(entity.TibialTuberosityLeft))

	resp, body = do(t, srv, http.MethodPatch, "/api/v1/assessments/"+a.ID+"/landmarks/front/LSH", `{"x": 0.35, "y": 0.28}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	resp, body = do(t, srv, http.MethodGet, "/api/v1/assessments/"+a.ID+"/report", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	var report entity.Report
	require.NoError(t, json.Unmarshal(body, &report))
	require.Equal(t, a.ID, report.AssessmentID)
	require.NotNil(t, report.Front)
	require.Nil(t, report.Right)
	shoulders, ok := report.Front.Level(entity.LevelShoulders)
	require.True(t, ok)
	require.Greater(t, shoulders.DeviationDeg, 0.0)

	resp, _ = do(t, srv, http.MethodGet, "/api/v1/assessments/"+a.ID, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAssessmentHandler_ErrorStatuses(t *testing.T) {
	srv := newTestServer(t, nil)
	a := createAssessment(t, srv)
	_, body := do(t, srv, http.MethodPut, "/api/v1/assessments/"+a.ID+"/landmarks/front", frontBody)
	require.NotEmpty(t, body)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown assessment", http.MethodGet, "/api/v1/assessments/missing", "", 404, "ASSESSMENT_NOT_FOUND"},
		{"unknown view", http.MethodPut, "/api/v1/assessments/" + a.ID + "/landmarks/left", frontBody, 400, "UNKNOWN_VIEW"},
		{"unknown point", http.MethodPut, "/api/v1/assessments/" + a.ID + "/landmarks/front", `{"image_width": 1, "image_height": 1, "points": [{"point": "TAIL", "x": 0.1, "y": 0.1}]}`, 400, "UNKNOWN_POINT"},
		{"duplicate point", http.MethodPut, "/api/v1/assessments/" + a.ID + "/landmarks/front", `{"image_width": 1, "image_height": 1, "points": [{"point": "NOSE", "x": 0.1, "y": 0.1}, {"point": "NO", "x": 0.2, "y": 0.2}]}`, 400, "DUPLICATE_LANDMARK"},
		{"out of range", http.MethodPut, "/api/v1/assessments/" + a.ID + "/landmarks/front", `{"image_width": 1, "image_height": 1, "points": [{"point": "NOSE", "x": 1.5, "y": 0.1}]}`, 400, "VALIDATION_ERROR"},
		{"bad user", http.MethodPost, "/api/v1/assessments", `{"user_id": 0}`, 400, "VALIDATION_ERROR"},
		{"not editable", http.MethodPatch, "/api/v1/assessments/" + a.ID + "/landmarks/front/NOSE", `{"x": 0.5, "y": 0.5}`, 409, "LANDMARK_NOT_EDITABLE"},
		{"view not captured", http.MethodPatch, "/api/v1/assessments/" + a.ID + "/landmarks/right/REA", `{"x": 0.5, "y": 0.5}`, 404, "VIEW_NOT_CAPTURED"},
		{"missing coordinate", http.MethodPatch, "/api/v1/assessments/" + a.ID + "/landmarks/front/LSH", `{"x": 0.5}`, 400, "VALIDATION_ERROR"},
		{"no estimator", http.MethodPost, "/api/v1/assessments/" + a.ID + "/photos/front", "jpeg", 503, "ESTIMATOR_NOT_CONFIGURED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, srv, tt.method, tt.path, tt.body)
			require.Equal(t, tt.status, resp.StatusCode, string(body))

			var errResp ErrorResponse
			require.NoError(t, json.Unmarshal(body, &errResp))
			require.Equal(t, tt.code, errResp.Code)
		})
	}
}

func TestAssessmentHandler_AnalyzePhoto(t *testing.T) {
	set := entity.LandmarkSet{
		ImageWidth:  1000,
		ImageHeight: 1000,
		Points: []entity.Landmark{
			entity.NewLandmark(entity.RightAnkle, 0.5, 0.95),
			entity.NewLandmark(entity.RightShoulder, 0.48, 0.3),
			entity.NewLandmark(entity.RightEar, 0.5, 0.1),
		},
	}
	srv := newTestServer(t, &stubEstimator{set: &set})
	a := createAssessment(t, srv)

	resp, body := do(t, srv, http.MethodPost, "/api/v1/assessments/"+a.ID+"/photos/right", "jpeg bytes")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	var updated entity.Assessment
	require.NoError(t, json.Unmarshal(body, &updated))
	require.NotNil(t, updated.Right)
	require.True(t, updated.Right.Has(entity.RightC7))

	resp, body = do(t, srv, http.MethodPost, "/api/v1/assessments/"+a.ID+"/photos/right", "")
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode, string(body))
}

func TestAssessmentHandler_Measure(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := do(t, srv, http.MethodPost, "/api/v1/posture/front", frontBody)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	var out MeasureResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotNil(t, out.Front)
	require.Nil(t, out.Right)
	require.True(t, out.Landmarks.Has(entity.JugularNotch))

	// без голеностопов расчёт анфас невозможен, но запрос корректен
	resp, body = do(t, srv, http.MethodPost, "/api/v1/posture/front", `{"image_width": 100, "image_height": 100, "points": [{"point": "NOSE", "x": 0.5, "y": 0.1}]}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(body, &raw))
	require.Contains(t, raw, "front")
	require.Nil(t, raw["front"])
}

func TestServer_HealthRequestIDAndMetrics(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := do(t, srv, http.MethodGet, "/", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"status":"ok"}`, string(body))
	require.NotEmpty(t, resp.Header.Get(RequestIDKey))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDKey, "fixed-id")
	resp, err := srv.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, "fixed-id", resp.Header.Get(RequestIDKey))

	do(t, srv, http.MethodPost, "/api/v1/posture/front", frontBody)

	resp, body = do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "posture_computations_total")
	require.Contains(t, string(body), "http_requests_total")
}

func TestMiddleware_RateLimit(t *testing.T) {
	logger := log.Discard()
	svc := app.NewAssessmentService(storage.NewMemoryAssessmentRepository(), nil, nil, nil, logger)
	srv := NewServer(logger, svc, Options{RateLimitRPS: 0.001, RateLimitBurst: 1})

	resp, _ := do(t, srv, http.MethodGet, "/api/v1/assessments/x", "")
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodGet, "/api/v1/assessments/x", "")
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	// вне /api/v1 лимит не действует
	resp, _ = do(t, srv, http.MethodGet, "/", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
