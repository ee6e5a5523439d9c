package wc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"wc-analyzer/internal/config"

	"github.com/go-resty/resty/v2"
)

// fetchState tracks one resource/filter pagination loop.
type fetchState int

const (
	stateFetching fetchState = iota
	stateRetrying
	stateExhausted
	stateDone
)

func (s fetchState) String() string {
	switch s {
	case stateFetching:
		return "fetching"
	case stateRetrying:
		return "retrying"
	case stateExhausted:
		return "exhausted"
	case stateDone:
		return "done"
	}
	return "unknown"
}

// ProgressEvent reports one extraction step to whoever is watching (CLI log,
// dashboard websocket feed).
type ProgressEvent struct {
	Resource string `json:"resource"`
	Filter   string `json:"filter,omitempty"`
	Page     int    `json:"page"`
	Records  int    `json:"records"`
	State    string `json:"state"`
}

// Client talks to the WooCommerce REST API. Extraction degrades to partial
// results instead of failing: every public Fetch* returns whatever was
// accumulated when a page died past the retry budget.
type Client struct {
	cfg        *config.Config
	http       *resty.Client
	onProgress func(ProgressEvent)
	sleep      func(time.Duration)
}

func NewClient(cfg *config.Config) *Client {
	client := resty.New()
	client.SetTimeout(cfg.Timeout)
	client.SetBaseURL(fmt.Sprintf("%s/wp-json/%s", cfg.StoreURL, cfg.APIVersion))
	client.SetQueryParams(map[string]string{
		"consumer_key":    cfg.ConsumerKey,
		"consumer_secret": cfg.ConsumerSecret,
	})

	return &Client{
		cfg:   cfg,
		http:  client,
		sleep: time.Sleep,
	}
}

// SetProgressListener injects a progress callback.
func (c *Client) SetProgressListener(fn func(ProgressEvent)) {
	c.onProgress = fn
}

func (c *Client) emit(ev ProgressEvent) {
	if c.onProgress != nil {
		c.onProgress(ev)
	}
}

// fetchCollection pages through one resource/filter combination starting at
// page 1. Termination is driven solely by an empty page (stateDone) or by a
// page that kept failing until the retry budget ran out (stateExhausted).
// Either way the accumulated records are returned.
func (c *Client) fetchCollection(ctx context.Context, resource string, filters map[string]string) ([]json.RawMessage, fetchState) {
	var records []json.RawMessage
	page := 1
	filterDesc := filters["status"]

	for {
		batch, err := c.fetchPage(ctx, resource, filters, page)
		if err != nil {
			// Retrying: same page, fixed backoff, bounded attempts.
			attempts := 1
			for attempts < c.cfg.MaxRetries && err != nil {
				log.Printf("[wc] %s page %d attempt %d/%d failed: %v", resource, page, attempts, c.cfg.MaxRetries, err)
				c.emit(ProgressEvent{Resource: resource, Filter: filterDesc, Page: page, Records: len(records), State: stateRetrying.String()})
				c.sleep(c.cfg.RetrySleep)
				batch, err = c.fetchPage(ctx, resource, filters, page)
				attempts++
			}
			if err != nil {
				log.Printf("[wc] %s page %d failed after %d attempts: %v (keeping %d records)",
					resource, page, attempts, err, len(records))
				c.emit(ProgressEvent{Resource: resource, Filter: filterDesc, Page: page, Records: len(records), State: stateExhausted.String()})
				return records, stateExhausted
			}
		}

		if len(batch) == 0 {
			c.emit(ProgressEvent{Resource: resource, Filter: filterDesc, Page: page, Records: len(records), State: stateDone.String()})
			return records, stateDone
		}

		records = append(records, batch...)
		c.emit(ProgressEvent{Resource: resource, Filter: filterDesc, Page: page, Records: len(records), State: stateFetching.String()})
		page++
		c.sleep(c.cfg.PageSleep)
	}
}

// fetchPage issues one paged GET. Any transport error, non-200 status,
// non-JSON body or non-array payload is a page-level failure; the caller's
// retry loop treats them all the same.
func (c *Client) fetchPage(ctx context.Context, resource string, filters map[string]string, page int) ([]json.RawMessage, error) {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("per_page", strconv.Itoa(c.cfg.PerPage)).
		SetQueryParam("page", strconv.Itoa(page))
	for k, v := range filters {
		req.SetQueryParam(k, v)
	}

	resp, err := req.Get("/" + resource)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}
	return decodeRecords(resp.Body())
}

// decodeRecords strips any diagnostic text the platform prints before the
// payload (mis-configured WordPress installs emit PHP notices ahead of the
// JSON) and decodes the remaining array.
func decodeRecords(body []byte) ([]json.RawMessage, error) {
	start := bytes.IndexByte(body, '[')
	if start == -1 {
		return nil, fmt.Errorf("no JSON array in response")
	}
	var records []json.RawMessage
	if err := json.Unmarshal(body[start:], &records); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	return records, nil
}
