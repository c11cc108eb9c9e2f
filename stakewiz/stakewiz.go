package stakewiz

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://api.stakewiz.com"

	errorBodyExcerpt = 2048
)

// Client reads epoch timing and validator rankings from the Stakewiz API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type EpochInfo struct {
	Epoch            uint64  `json:"epoch"`
	RemainingSeconds float64 `json:"remaining_seconds"`
}

// RemainingWholeSeconds truncates the countdown for display
func (e *EpochInfo) RemainingWholeSeconds() int64 {
	return int64(e.RemainingSeconds)
}

type Validator struct {
	Rank        int     `json:"rank"`
	WizScore    float64 `json:"wiz_score"`
	VoteSuccess float64 `json:"vote_success"`
	SkipRate    float64 `json:"skip_rate"`
	Name        string  `json:"name"`
}

func (c *Client) GetEpochInfo(ctx context.Context) (*EpochInfo, error) {

	var info EpochInfo
	if err := c.get(ctx, "/epoch_info", &info); err != nil {
		return nil, err
	}

	return &info, nil
}

// GetValidator returns the ranking entry of a vote account
func (c *Client) GetValidator(ctx context.Context, voteAddress string) (*Validator, error) {

	var v Validator
	if err := c.get(ctx, "/validator/"+url.PathEscape(voteAddress), &v); err != nil {
		return nil, err
	}

	return &v, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {

	endpoint := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "Unable to build stakewiz request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "Stakewiz request %s failed", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyExcerpt))
		log.WithFields(log.Fields{
			"Path": path, "Status": resp.StatusCode,
		}).Debug("Stakewiz non-success response")
		return errors.Errorf("Failed to fetch data: stakewiz %s status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "Unable to decode stakewiz %s response", path)
	}

	return nil
}
