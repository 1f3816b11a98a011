// Package property fetches the guest/property webhook feed.
package property

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"concierge/internal/adapters/upstream"
	"concierge/internal/domain"
)

var validate = validator.New()

type Client struct {
	feed    *upstream.Client
	images  *upstream.Client
	feedURL string
}

// New uses feed for the JSON payload and images for hero/venue image bytes, so
// a failing image host cannot trip the feed's breaker.
func New(feed, images *upstream.Client, feedURL string) *Client {
	return &Client{feed: feed, images: images, feedURL: feedURL}
}

var _ domain.PropertySource = (*Client)(nil)

func (c *Client) GetProperty(ctx context.Context) (domain.PropertyFeed, error) {
	var out domain.PropertyFeed
	if err := c.feed.GetJSON(ctx, c.feedURL, &out); err != nil {
		return domain.PropertyFeed{}, err
	}
	if err := validate.Struct(out); err != nil {
		return domain.PropertyFeed{}, fmt.Errorf("property feed: %w: %v", domain.ErrDecode, err)
	}
	return out, nil
}

func (c *Client) GetImage(ctx context.Context, url string) (domain.Image, error) {
	if url == "" {
		return domain.Image{}, fmt.Errorf("property image: empty url: %w", domain.ErrNoData)
	}
	return c.images.GetBytes(ctx, url)
}
