package repository

import "errors"

var (
	ErrPostNotFound         = errors.New("post not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrBadCursor            = errors.New("invalid cursor")
)
