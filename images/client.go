package images

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cameroncuttingedge/fruit_bingo/game"
	"github.com/rs/zerolog/log"
)

var ErrFetchFailure = errors.New("failed to fetch images")

// Client talks to the image service that hands out the descriptor list.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// FetchImages performs GET <base>/GetImages. Transport errors, non-2xx answers and
// undecodable bodies all come back wrapped in ErrFetchFailure.
func (c *Client) FetchImages(ctx context.Context) ([]game.ImageDescriptor, error) {
	url := c.baseURL + "/GetImages"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrFetchFailure, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetchFailure, resp.StatusCode)
	}

	var descriptors []game.ImageDescriptor
	if err := json.NewDecoder(resp.Body).Decode(&descriptors); err != nil {
		return nil, fmt.Errorf("%w: decode body: %v", ErrFetchFailure, err)
	}

	log.Debug().Str("url", url).Int("count", len(descriptors)).Msg("Fetched image descriptors")
	return descriptors, nil
}

// FetchGrid fetches the descriptors and samples a fresh grid from them.
func (c *Client) FetchGrid(ctx context.Context, sampler game.Sampler) (game.Grid, error) {
	descriptors, err := c.FetchImages(ctx)
	if err != nil {
		log.Error().Err(err).Str("url", c.baseURL).Msg("Error fetching images from the image service")
		return game.Grid{}, err
	}
	grid, err := game.NewGrid(descriptors, sampler)
	if err != nil {
		log.Error().Err(err).Str("url", c.baseURL).Msg("Image service returned no images")
		return game.Grid{}, err
	}
	return grid, nil
}
