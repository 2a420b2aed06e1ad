package rest

import (
	"posture-bot/internal/domain/entity"
)

type CreateAssessmentRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

type LandmarkRequest struct {
	Point      string   `json:"point" validate:"required"`
	X          *float64 `json:"x" validate:"required,gte=0,lte=1"`
	Y          *float64 `json:"y" validate:"required,gte=0,lte=1"`
	Z          *float64 `json:"z"`
	Visibility *float64 `json:"visibility" validate:"omitempty,gte=0,lte=1"`
}

type LandmarkSetRequest struct {
	ImageWidth  uint32            `json:"image_width"`
	ImageHeight uint32            `json:"image_height"`
	Points      []LandmarkRequest `json:"points" validate:"dive"`
}

type MoveLandmarkRequest struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
}

// MeasureResponse результат расчёта без сохранения; метрики ракурса null, если точек не хватило
type MeasureResponse struct {
	Landmarks entity.LandmarkSet   `json:"landmarks"`
	Front     *entity.FrontMetrics `json:"front"`
	Right     *entity.RightMetrics `json:"right"`
}

// ToLandmarkSet переводит запрос в доменный набор. Флаги и коды точек берутся из каталога.
func (r LandmarkSetRequest) ToLandmarkSet() (entity.LandmarkSet, error) {
	set := entity.LandmarkSet{
		ImageWidth:  r.ImageWidth,
		ImageHeight: r.ImageHeight,
		Points:      make([]entity.Landmark, 0, len(r.Points)),
	}
	for _, p := range r.Points {
		point, err := entity.ParseAnatomicalPoint(p.Point)
		if err != nil {
			return entity.LandmarkSet{}, err
		}
		l := entity.NewLandmark(point, *p.X, *p.Y)
		l.Z = p.Z
		l.Visibility = p.Visibility
		set.Points = append(set.Points, l)
	}
	return set, nil
}
