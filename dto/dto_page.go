package dto

type ListByCursorResp[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"invalid body"`
}
