package pose

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"posture-bot/internal/domain/entity"
	"posture-bot/internal/domain/geometry"
	"posture-bot/pkg/log"
)

const estimatePath = "/v1/pose"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// нулевой размер кадра допустим: набор сохраняется, метрики для него не считаются
type estimateResponse struct {
	ImageWidth  uint32             `json:"image_width"`
	ImageHeight uint32             `json:"image_height"`
	Landmarks   []responseLandmark `json:"landmarks" validate:"dive"`
}

type responseLandmark struct {
	Name       string   `json:"name" validate:"required"`
	X          *float64 `json:"x" validate:"required"`
	Y          *float64 `json:"y" validate:"required"`
	Z          *float64 `json:"z"`
	Visibility *float64 `json:"visibility" validate:"omitempty,gte=0,lte=1"`
}

// HTTPEstimator обращается к внешнему сервису оценки позы.
// Сервис принимает снимок в теле запроса и возвращает точки в нормализованных координатах.
type HTTPEstimator struct {
	baseURL   string
	client    *http.Client
	validator *validator.Validate
	log       *logrus.Logger
}

func NewHTTPEstimator(baseURL string, timeout time.Duration, logger *logrus.Logger) *HTTPEstimator {
	return &HTTPEstimator{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: timeout},
		validator: validator.New(),
		log:       logger,
	}
}

func (e *HTTPEstimator) Estimate(ctx context.Context, imageData []byte, view entity.View) (*entity.LandmarkSet, error) {
	endpoint := e.baseURL + estimatePath + "?" + url.Values{"view": {string(view)}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", http.DetectContentType(imageData))
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pose service request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pose service error: %s", resp.Status)
	}

	var parsed estimateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if err := e.validator.Struct(parsed); err != nil {
		return nil, fmt.Errorf("invalid response: %w", err)
	}

	return e.toLandmarkSet(parsed, view)
}

func (e *HTTPEstimator) toLandmarkSet(resp estimateResponse, view entity.View) (*entity.LandmarkSet, error) {
	set := entity.LandmarkSet{
		ImageWidth:  resp.ImageWidth,
		ImageHeight: resp.ImageHeight,
		Points:      make([]entity.Landmark, 0, len(resp.Landmarks)),
	}

	skipped := 0
	for _, rl := range resp.Landmarks {
		point, err := entity.ParseAnatomicalPoint(rl.Name)
		if err != nil {
			skipped++
			continue
		}

		l := entity.NewLandmark(point, geometry.Clamp01(*rl.X), geometry.Clamp01(*rl.Y))
		l.Z = rl.Z
		l.Visibility = rl.Visibility
		set.Points = append(set.Points, l)
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}

	if skipped > 0 {
		e.log.WithFields(log.Fields{
			"view":    view,
			"skipped": skipped,
		}).Debug("Unknown landmarks skipped")
	}

	return &set, nil
}
