package validation

import "strconv"

// PageLimits configures pagination normalization.
type PageLimits struct {
	DefaultLimit int
	MaxLimit     int
}

// NormalizePage coerces raw page/limit query values into positive
// integers. Non-numeric or non-positive input falls back to the
// default (page 1, the configured default limit) rather than being
// rejected; limits above the configured maximum are clamped.
func NormalizePage(pageValue, limitValue string, limits PageLimits) (page, limit int) {
	page = 1
	if n, err := strconv.Atoi(pageValue); err == nil && n > 0 {
		page = n
	}

	limit = limits.DefaultLimit
	if n, err := strconv.Atoi(limitValue); err == nil && n > 0 {
		limit = n
	}
	if limits.MaxLimit > 0 && limit > limits.MaxLimit {
		limit = limits.MaxLimit
	}
	return page, limit
}
