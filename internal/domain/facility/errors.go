package facility

import "errors"

var (
	ErrSettingsNotFound  = errors.New("no facility settings found")
	ErrPerimeterNotReady = errors.New("facility perimeter is not configured")
)
