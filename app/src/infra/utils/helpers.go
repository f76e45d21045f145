package utils

// EmptyFallback returns fallback when value is empty.
func EmptyFallback(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
