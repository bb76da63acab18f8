package common

// PaginationResponse represents pagination metadata
type PaginationResponse struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
}

// NewPagination derives page numbers from a limit/offset window
func NewPagination(limit, offset int, total int64) *PaginationResponse {
	if limit <= 0 {
		return &PaginationResponse{TotalItems: total}
	}
	return &PaginationResponse{
		Page:       offset/limit + 1,
		PageSize:   limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
		TotalItems: total,
	}
}
