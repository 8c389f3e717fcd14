package domain

// ID is used across domain entities.
type ID = int64

// RequestContext carries authenticated user info extracted from the session token.
type RequestContext struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}

// ListOptions carries simple paging and sorting preferences for listings.
type ListOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Sort  string `json:"sort"`
}
