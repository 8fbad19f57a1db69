package utils

// Ref returns a pointer to a copy of v.
func Ref[T any](v T) *T {
	return &v
}

// DeRefOr returns *p, or def when p is nil.
func DeRefOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// FirstNonEmpty returns the first non-empty string, or "".
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
