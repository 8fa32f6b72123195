package shopapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/torqueboard/torqueboard/internal/report"
)

const dateLayout = "2006-01-02"

// Client talks to the shop-management API. Credentials are explicit
// construction-time configuration; the client holds no process-wide state.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a record-source client for the given API endpoint.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchPage retrieves one page of repair-order aggregates. HTTP 429 maps to
// report.ErrRateLimited so the fetcher can back off and retry the same page;
// every other non-2xx status is a fatal transport error.
func (c *Client) FetchPage(ctx context.Context, filter report.FetchFilter, page int) (report.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL(filter, page), nil)
	if err != nil {
		return report.Page{}, fmt.Errorf("shopapi: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return report.Page{}, fmt.Errorf("shopapi: fetch page %d: %w", page, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return report.Page{}, fmt.Errorf("shopapi: page %d: %w", page, report.ErrRateLimited)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return report.Page{}, fmt.Errorf("shopapi: page %d: unexpected status %d", page, resp.StatusCode)
	}

	var envelope pageEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return report.Page{}, fmt.Errorf("shopapi: decode page %d: %w", page, err)
	}

	orders := make([]report.RepairOrder, 0, len(envelope.Content))
	for _, dto := range envelope.Content {
		orders = append(orders, normalizeOrder(dto))
	}
	return report.Page{Orders: orders, TotalPages: envelope.TotalPages}, nil
}

func (c *Client) pageURL(filter report.FetchFilter, page int) string {
	q := url.Values{}
	q.Set("shop", filter.ShopID)
	q.Set("page", strconv.Itoa(page))
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 100
	}
	q.Set("size", strconv.Itoa(size))
	for _, st := range filter.StatusIDs {
		q.Add("repairOrderStatusId", strconv.Itoa(int(st)))
	}
	if filter.DateField != "" {
		if filter.DateStart != nil {
			q.Set(filter.DateField+"Start", filter.DateStart.UTC().Format(dateLayout))
		}
		if filter.DateEnd != nil {
			q.Set(filter.DateField+"End", filter.DateEnd.UTC().Format(dateLayout))
		}
	}
	return c.baseURL + "/api/v1/repair-orders?" + q.Encode()
}
