package models

type ChatMessage struct {
	Role    string `json:"role"` // "user" или "assistant"
	Content string `json:"content"`
}

type ChatRequest struct {
	Query   string        `json:"query" binding:"required"`
	History []ChatMessage `json:"history"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}
