package handler

import "github.com/stocktrack/inventory-api/internal/core/domain"

// Envelope is the canonical JSON body for every response: success responses
// carry data fields, failures carry message/code and, for validation
// failures, a per-field errors list.
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Code    string       `json:"code,omitempty"`
	Errors  []string     `json:"errors,omitempty"`
	Token   string       `json:"token,omitempty"`
	User    *domain.User `json:"user,omitempty"`
	Data    any          `json:"data,omitempty"`
}

func okData(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

func okUser(user *domain.User) Envelope {
	return Envelope{Success: true, User: user}
}

func okSession(token string, user *domain.User) Envelope {
	return Envelope{Success: true, Token: token, User: user}
}
