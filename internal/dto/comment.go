package dto

import (
	"time"

	"github.com/tracklane/task-tracker-api/internal/models"
)

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID        uint64      `json:"id"`
	TaskID    uint64      `json:"task_id"`
	CreatorID uint64      `json:"creator_id"`
	Body      string      `json:"body"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Creator   *UserRefDTO `json:"creator,omitempty"`
}

// CommentListResponse represents the comments under a task
type CommentListResponse struct {
	Comments []CommentDTO `json:"comments"`
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	dto := CommentDTO{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		CreatorID: comment.CreatorID,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}

	if comment.Creator.ID != 0 {
		creator := ToUserRefDTO(comment.Creator)
		dto.Creator = &creator
	}

	return dto
}

// ToCommentListResponse converts a slice of comments to CommentListResponse
func ToCommentListResponse(comments []models.Comment) CommentListResponse {
	items := make([]CommentDTO, len(comments))
	for i, comment := range comments {
		items[i] = ToCommentDTO(comment)
	}
	return CommentListResponse{Comments: items}
}
