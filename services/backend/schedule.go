package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"neighborly/models"
)

func schedulePath(providerID string) string {
	return "/neighbors/" + url.PathEscape(providerID) + "/availability"
}

// GetSchedule always bypasses the response cache; the calendar loads fresh.
func (c *Client) GetSchedule(ctx context.Context, token, providerID string) (models.DaySchedule, error) {
	data, err := c.do(ctx, http.MethodGet, schedulePath(providerID), token, nil)
	if err != nil {
		return nil, err
	}
	var out models.ScheduleResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode schedule: %w", err)
	}
	if out.Schedule == nil {
		out.Schedule = models.DaySchedule{}
	}
	return out.Schedule, nil
}

// SaveSchedule replaces the neighbor's stored schedule.
func (c *Client) SaveSchedule(ctx context.Context, token string, req models.SaveScheduleRequest) error {
	return c.send(ctx, http.MethodPut, token, schedulePath(req.ProviderID), req, nil)
}
