package dto

// CreateNoticeRequest is the payload for publishing a notice
type CreateNoticeRequest struct {
	Title string `json:"title" binding:"required,max=200" example:"Term registration opens Monday"`
	Body  string `json:"body" binding:"required"`
}
