package dto

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Code    int      `json:"code"`
	Fields  []string `json:"fields,omitempty"`
}

// PaginationInfo describes the page a list response holds
type PaginationInfo struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}
