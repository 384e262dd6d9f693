package models

import "time"

type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
}

func (r *ChatRequest) Validate() error {
	if r.Message == "" {
		return ErrMissingMessage
	}
	return nil
}

type ChatResponse struct {
	Response       string        `json:"response"`
	ConversationID string        `json:"conversation_id"`
	Intent         string        `json:"intent"`
	FlightData     *FlightResult `json:"flight_data,omitempty"`
	ErrorCode      string        `json:"error_code,omitempty"`
}

type ResetRequest struct {
	ConversationID string `json:"conversation_id"`
}

func (r *ResetRequest) Validate() error {
	if r.ConversationID == "" {
		return ErrMissingConversationID
	}
	return nil
}

type ResetResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
