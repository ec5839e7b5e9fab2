package common

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type PageReq struct {
	Page  int `form:"page" json:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" json:"limit" binding:"omitempty,min=1"`
}

// Normalize fills defaults and caps the page size.
func (p *PageReq) Normalize() {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

func (p *PageReq) Offset() int {
	return (p.Page - 1) * p.Limit
}

type PageResp[T any] struct {
	Data  T
	Total int64
	Page  int
	Limit int
}

type Pagination struct {
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
}

func (p *PageResp[T]) Pagination() *Pagination {
	pages := int64(0)
	if p.Limit > 0 {
		pages = (p.Total + int64(p.Limit) - 1) / int64(p.Limit)
	}
	return &Pagination{
		TotalItems:  p.Total,
		TotalPages:  pages,
		CurrentPage: p.Page,
		Limit:       p.Limit,
	}
}
