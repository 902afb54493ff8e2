package domain

import (
	"fmt"
	"time"
)

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

func ParseNotificationType(s string) (NotificationType, error) {
	switch t := NotificationType(s); t {
	case NotificationSuccess, NotificationError, NotificationWarning, NotificationInfo:
		return t, nil
	}
	return "", fmt.Errorf("unknown notification type %q", s)
}

// DefaultNotificationDuration applies when a notification sets no duration.
const DefaultNotificationDuration = 3 * time.Second

// A Notification with zero Duration is never dismissed automatically.
type Notification struct {
	ID        int64
	Type      NotificationType
	Title     string
	Message   string
	Duration  time.Duration
	CreatedAt time.Time
}

func (n Notification) Sticky() bool {
	return n.Duration == 0
}

type NotificationInput struct {
	Type    NotificationType `json:"type" validate:"oneof=success error warning info"`
	Title   string           `json:"title" validate:"required"`
	Message string           `json:"message"`
	// Duration nil means the default duration.
	Duration *time.Duration `json:"durationMs"`
}

var notificationMessages = messages{
	"type":       "Type must be one of success, error, warning, info",
	"title":      "Title is required",
	"durationMs": "Duration must not be negative",
}

func (in NotificationInput) Validate() error {
	fields := notificationMessages.fieldErrors(validate.Struct(in))
	if fields == nil {
		fields = make(FieldErrors)
	}
	if in.Duration != nil {
		notificationMessages.check(fields, "durationMs", int64(*in.Duration), "gte=0")
	}
	return validationError(fields)
}
