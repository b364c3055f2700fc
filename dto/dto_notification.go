package dto

import "github.com/pllus/clubmatch/internal/models"

type UnreadNotificationsResp struct {
	UnreadCount int                   `json:"unread_count"`
	Data        []models.Notification `json:"data"`
}

type NotificationResp struct {
	Data models.Notification `json:"data"`
}
