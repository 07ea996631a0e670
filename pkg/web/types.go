// Package web provides HTTP request and response types for the editorial API.
package web

// ErrorResponse represents a standardized API error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// CreateStoryRequest represents the request body for submitting a new story.
type CreateStoryRequest struct {
	Title    string  `json:"title"               validate:"required,min=3"`
	Content  string  `json:"content"             validate:"required"`
	Category string  `json:"category"            validate:"required"`
	Excerpt  *string `json:"excerpt,omitempty"   validate:"omitempty,max=500"`
	ImageURL *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// UpdateStoryRequest represents the request body for editing a pending story.
// All fields are optional to support partial updates.
type UpdateStoryRequest struct {
	Title    *string `json:"title,omitempty"     validate:"omitempty,min=3"`
	Content  *string `json:"content,omitempty"   validate:"omitempty,min=1"`
	Category *string `json:"category,omitempty"  validate:"omitempty,min=1"`
	Excerpt  *string `json:"excerpt,omitempty"   validate:"omitempty,max=500"`
	ImageURL *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// ReviewStoryRequest represents the request body for a review decision.
type ReviewStoryRequest struct {
	Action string `json:"action"          validate:"required,oneof=approve reject publish"`
	Notes  string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}
