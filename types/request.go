package types

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}
