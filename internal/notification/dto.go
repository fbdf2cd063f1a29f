// AngelaMos | 2026
// dto.go

package notification

import "time"

type CreateNotificationRequest struct {
	Title   string   `json:"title" validate:"required,min=2,max=200"`
	Message string   `json:"message" validate:"required,min=2,max=2000"`
	UserIDs []string `json:"userIds,omitempty" validate:"omitempty,dive,uuid4"`
}

type NotificationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserNotificationResponse struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type UnreadCountResponse struct {
	Unread int `json:"unread"`
}

func ToNotificationResponse(n *Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	}
}

func ToUserNotificationResponse(n UserNotification) UserNotificationResponse {
	return UserNotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read(),
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
