package commerce

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/opencourse/discovery/internal/app/models"
)

// CourseMode mirrors the LMS commerce API representation of a seat.
type CourseMode struct {
	Name     string     `json:"name"`
	Currency string     `json:"currency"`
	Price    float64    `json:"price"`
	SKU      *string    `json:"sku,omitempty"`
	Expires  *time.Time `json:"expires,omitempty"`
}

// courseModesPayload is the body of the course-mode PUT.
type courseModesPayload struct {
	ID    string       `json:"id"`
	Modes []CourseMode `json:"modes"`
}

// tokenResponse is the OAuth client-credentials grant response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// tokenExpiryMargin is subtracted from the token lifetime so a token is
// never used in its final seconds.
const tokenExpiryMargin = 30 * time.Second

// Config holds the OAuth credentials for the LMS commerce API.
type Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// Client calls the partner LMS commerce API with an OAuth
// client-credentials token that is cached until shortly before expiry.
type Client struct {
	http   *resty.Client
	config Config

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a commerce API client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		http:   resty.New().SetTimeout(timeout),
		config: cfg,
	}
}

// ModesForSeats converts a course run's seats into commerce course modes.
func ModesForSeats(seats []*models.Seat) []CourseMode {
	modes := make([]CourseMode, 0, len(seats))
	for _, seat := range seats {
		modes = append(modes, CourseMode{
			Name:     string(seat.Type),
			Currency: seat.CurrencyCode,
			Price:    seat.Price,
			SKU:      seat.SKU,
			Expires:  seat.UpgradeDeadline,
		})
	}
	return modes
}

// UpdateCourseModes PUTs the given modes to
// {commerceAPIURL}courses/{courseRunKey}/. It reports ok=false for any
// non-2xx response; the caller owns the failure policy.
func (c *Client) UpdateCourseModes(ctx context.Context, commerceAPIURL, courseRunKey string, modes []CourseMode) (bool, error) {
	token, err := c.token(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to obtain commerce API token: %w", err)
	}

	url := fmt.Sprintf("%scourses/%s/", commerceAPIURL, courseRunKey)
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetBody(courseModesPayload{ID: courseRunKey, Modes: modes}).
		Put(url)
	if err != nil {
		return false, fmt.Errorf("commerce API request failed: %w", err)
	}

	return resp.IsSuccess(), nil
}

// token returns a cached access token, fetching a fresh one when the cached
// token is missing or about to expire.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	var tok tokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "client_credentials",
			"client_id":     c.config.ClientID,
			"client_secret": c.config.ClientSecret,
			"token_type":    "jwt",
		}).
		SetResult(&tok).
		Post(c.config.TokenURL)
	if err != nil {
		return "", err
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("token endpoint returned %s", resp.Status())
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned an empty access token")
	}

	c.accessToken = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - tokenExpiryMargin)
	return c.accessToken, nil
}
