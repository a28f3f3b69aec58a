package models

type PaginationQuery struct {
	Page  int `form:"page" json:"page"`
	Limit int `form:"limit" json:"limit"`
}

type PaginationResult struct {
	Total int `form:"total" json:"total"`
	Page  int `form:"page" json:"page"`
	Limit int `form:"limit" json:"limit"`
}

// NewPaginationResult creates a new pagination result object
func NewPaginationResult(total, page, limit int) PaginationResult {
	return PaginationResult{
		Total: total,
		Page:  page,
		Limit: limit,
	}
}

// Normalize applies the default page/limit bounds
func (q *PaginationQuery) Normalize() {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Limit > 500 {
		q.Limit = 500
	}
}

// Offset returns the row offset for the normalized query
func (q *PaginationQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}
