package api

import (
	"context"

	"boozedash/model"
)

// TrackEvent forwards one analytics event to the backend sink
func (c *Client) TrackEvent(ctx context.Context, event model.AnalyticsEvent) error {
	return c.Post(ctx, "/analytics/track", event, nil)
}
