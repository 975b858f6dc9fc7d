package route

// Validate checks a selection before any request is made: both cities are
// required and they must differ. Values are compared as given.
func Validate(start, end string) error {
	if start == "" || end == "" {
		return ErrMissingCity
	}
	if start == end {
		return ErrSameCity
	}
	return nil
}

// ValidationReason maps a validation error to a short metric label.
func ValidationReason(err error) string {
	switch err {
	case ErrMissingCity:
		return "missing_city"
	case ErrSameCity:
		return "same_city"
	default:
		return "unknown"
	}
}
