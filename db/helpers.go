package db

import (
	"go.mongodb.org/mongo-driver/mongo/options"
)

// paginationOpts builds the find options for a paginated listing. Pages are
// 1-based; out-of-range values fall back to the defaults.
func paginationOpts(page, pageSize int64) *options.FindOptions {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	return options.Find().SetSkip((page - 1) * pageSize).SetLimit(pageSize)
}
