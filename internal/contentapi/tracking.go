package contentapi

import (
	"context"
	"net/url"
)

// TrackImpression records that an ad was shown.
func (c *Client) TrackImpression(ctx context.Context, adID string) error {
	_, err := c.Post(ctx, "/advertisements/"+url.PathEscape(adID)+"/impression", nil)
	return err
}

// TrackClick records a click-through.
func (c *Client) TrackClick(ctx context.Context, adID string) error {
	_, err := c.Post(ctx, "/advertisements/"+url.PathEscape(adID)+"/click", nil)
	return err
}
