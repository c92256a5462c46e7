package service

// PageDefaults carries the configured pagination bounds. The zero value is
// usable and falls back to page size 10 with a cap of 100.
type PageDefaults struct {
	DefaultLimit int
	MaxLimit     int
}

func (p PageDefaults) normalized() PageDefaults {
	if p.DefaultLimit <= 0 {
		p.DefaultLimit = 10
	}
	if p.MaxLimit <= 0 {
		p.MaxLimit = 100
	}
	return p
}

// clamp coerces page and limit into their valid ranges: page ≥ 1, limit
// between 1 and the configured cap, defaulting when out of range.
func (p PageDefaults) clamp(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = p.DefaultLimit
	}
	if limit > p.MaxLimit {
		limit = p.MaxLimit
	}
	return page, limit
}
