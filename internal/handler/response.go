package handler

// MessageResponse confirms a mutation.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreatedResponse confirms a creation and carries the new surrogate id.
type CreatedResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

func NewMessageResponse(message string) *MessageResponse {
	return &MessageResponse{Message: message}
}

func NewCreatedResponse(message string, id int64) *CreatedResponse {
	return &CreatedResponse{Message: message, ID: id}
}
