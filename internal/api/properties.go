package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/idilsaglam/lovedhomes/internal/model"
)

const propertiesPath = "/api/properties"

// CreatePropertyRequest is the body of POST /api/properties. A nil PhotoURL
// is sent as JSON null.
type CreatePropertyRequest struct {
	Name     string  `json:"name"`
	PhotoURL *string `json:"photo_url"`
}

// ListProperties returns the properties in server order.
func (c *Client) ListProperties(ctx context.Context) ([]model.Property, error) {
	raw, err := c.do(ctx, http.MethodGet, propertiesPath, nil, nil)
	if err != nil {
		return nil, err
	}
	var props []model.Property
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}
	if props == nil {
		props = []model.Property{}
	}
	return props, nil
}

// CreateProperty submits a new property. The response body is not consumed;
// callers reload the list to pick up server-assigned fields.
func (c *Client) CreateProperty(ctx context.Context, req CreatePropertyRequest) error {
	_, err := c.do(ctx, http.MethodPost, propertiesPath, nil, req)
	return err
}
