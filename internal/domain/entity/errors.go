package entity

import "errors"

var (
	ErrUnknownPoint           = errors.New("unknown anatomical point")
	ErrUnknownView            = errors.New("unknown view")
	ErrDuplicateLandmark      = errors.New("duplicate landmark")
	ErrLandmarkNotFound       = errors.New("landmark not found")
	ErrLandmarkNotEditable    = errors.New("landmark is not editable")
	ErrInvalidCoordinate      = errors.New("coordinate must be a finite number")
	ErrAssessmentNotFound     = errors.New("assessment not found")
	ErrViewNotCaptured        = errors.New("view has no landmarks yet")
	ErrEstimatorNotConfigured = errors.New("pose estimator is not configured")
	ErrPoorPhoto              = errors.New("photo is not suitable for pose estimation")
)
