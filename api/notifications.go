package api

import (
	"context"
	"fmt"

	"boozedash/model"
)

// NotificationList authoritative notification state from the backend
type NotificationList struct {
	Notifications []model.NotificationRecord `json:"notifications"`
	UnreadCount   int                        `json:"unread_count"`
}

// FetchNotifications fetches the authoritative notification list
func (c *Client) FetchNotifications(ctx context.Context) (*NotificationList, error) {
	var list NotificationList
	if err := c.Get(ctx, "/notifications", &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// MarkNotificationRead marks one notification read on the backend
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.Patch(ctx, fmt.Sprintf("/notifications/%s/read", id), nil, nil)
}

// MarkAllNotificationsRead marks every notification read on the backend
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.Patch(ctx, "/notifications/read-all", nil, nil)
}

// DeleteNotification deletes one notification on the backend
func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	return c.Delete(ctx, fmt.Sprintf("/notifications/%s", id))
}

// UpdateNotificationSettings merges the patch into the remote settings and
// returns the resulting settings object.
func (c *Client) UpdateNotificationSettings(ctx context.Context, patch model.SettingsPatch) (*model.NotificationSettings, error) {
	var settings model.NotificationSettings
	if err := c.Patch(ctx, "/notifications/settings", patch, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
