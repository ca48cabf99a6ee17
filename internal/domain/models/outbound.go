package models

// NotificationLevel tells the recipient whether an operation went through.
type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyError   NotificationLevel = "error"
)

// Notification is a fire-and-forget message for administrators.
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
}
