package entities

import "errors"

// Domain errors
var (
	// Meeting errors
	ErrMeetingNotFound = errors.New("meeting not found")

	// Detection errors
	ErrDetectionNotFound        = errors.New("detection not found")
	ErrDetectionAlreadyResolved = errors.New("detection already resolved")
	ErrInvalidDetectionStatus   = errors.New("invalid detection status")

	// Insight errors
	ErrInsightNotFound = errors.New("insight not found")
)
