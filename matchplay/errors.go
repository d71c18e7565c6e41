package matchplay

import "errors"

var (
	ErrInvalidCourseData      = errors.New("invalid course data")
	ErrInconsistentHoleResult = errors.New("inconsistent hole result")
	ErrPressNotEligible       = errors.New("press not eligible")
)
