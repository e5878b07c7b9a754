// Package identity looks up user profiles in the User service. The
// authentication service embeds the returned profile in access tokens.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/eventspark/auth-service/internal/common"
	"github.com/eventspark/auth-service/internal/logging"
	"github.com/eventspark/auth-service/internal/server/models"
)

// Lookup resolves an email to a user profile. Implementations return
// common.ErrorNotFound when no user exists for the email; transport
// failures propagate as ordinary errors.
type Lookup interface {
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
}

// Client calls the User service over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
	logger  logging.Logger
}

func NewClient(baseURL string, logger logging.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		logger:  logger.With("module", "user_client"),
	}
}

// envelope is the User service response wrapper.
type envelope struct {
	Result  *models.Profile `json:"result"`
	Success bool            `json:"success"`
}

// GetByEmail fetches the profile for email. Any non-OK status or
// undecodable body counts as an absent user, matching how callers treat
// a missing profile; only transport-level failures surface as errors.
func (c *Client) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	endpoint := fmt.Sprintf("%s/api/user/by-email/%s", c.baseURL, url.PathEscape(email))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn(ctx, "user lookup failed", "status", resp.StatusCode, "url", endpoint)
		return nil, common.ErrorNotFound
	}

	var body envelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Result == nil {
		c.logger.Warn(ctx, "user lookup returned an unusable body", "url", endpoint)
		return nil, common.ErrorNotFound
	}

	return body.Result, nil
}
