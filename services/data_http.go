package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/valyala/fastjson"
)

type APIFetcher interface {
	Fetch(ctx context.Context, resource Resource) (*Payload, error)
	FetchIfChanged(ctx context.Context, resource Resource, etag string) (*Payload, bool, error)
}

type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

type FetcherOption func(*HTTPFetcher)

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(timeout time.Duration) FetcherOption {
	return func(h *HTTPFetcher) { h.client.Timeout = timeout }
}

func WithHTTPClient(client *http.Client) FetcherOption {
	return func(h *HTTPFetcher) { h.client = client }
}

func NewHTTPFetcher(baseURL string, opts ...FetcherOption) *HTTPFetcher {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	h := &HTTPFetcher{
		baseURL: baseURL,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HTTPFetcher) BaseURL() string {
	return h.baseURL
}

// URL returns the absolute endpoint for resource.
func (h *HTTPFetcher) URL(resource Resource) (string, error) {
	path, ok := resource.Path()
	if !ok {
		return "", &Error{Op: "fetch", Kind: KindInvalidResource, Resource: resource, Err: ErrUnknownResource}
	}
	return h.baseURL + "/" + path, nil
}

func (h *HTTPFetcher) Fetch(ctx context.Context, resource Resource) (*Payload, error) {
	payload, _, err := h.do(ctx, resource, "")
	return payload, err
}

// FetchIfChanged sends If-None-Match when etag is set and reports
// notModified on 304, in which case the payload is nil.
func (h *HTTPFetcher) FetchIfChanged(ctx context.Context, resource Resource, etag string) (*Payload, bool, error) {
	return h.do(ctx, resource, etag)
}

func (h *HTTPFetcher) do(ctx context.Context, resource Resource, etag string) (*Payload, bool, error) {
	url, err := h.URL(resource)
	if err != nil {
		return nil, false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, &Error{Op: "fetch", Kind: KindTransport, Resource: resource, Err: err}
	}

	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, false, &Error{Op: "fetch", Kind: KindTransport, Resource: resource, Err: err}
	}
	defer resp.Body.Close()

	if etag != "" && resp.StatusCode == http.StatusNotModified {
		log.Printf("Upstream not modified (resource=%s, etag=%s)", resource, etag)
		return nil, true, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, false, &Error{
			Op:         "fetch",
			Kind:       KindTransport,
			Resource:   resource,
			StatusCode: resp.StatusCode,
			Err:        errors.New("upstream API error, status: " + resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, &Error{Op: "fetch", Kind: KindTransport, Resource: resource, Err: err}
	}

	if err := fastjson.ValidateBytes(body); err != nil {
		return nil, false, &Error{Op: "fetch", Kind: KindDecode, Resource: resource, Err: err}
	}

	newETag := resp.Header.Get("ETag")
	log.Printf("Fetched %d bytes from upstream (%s, status=%s, etag=%s)", len(body), url, resp.Status, newETag)

	return &Payload{
		Resource:  resource,
		ETag:      newETag,
		FetchedAt: time.Now().UTC(),
		Body:      body,
	}, false, nil
}

func (h *HTTPFetcher) FetchSummary(ctx context.Context) (*Payload, error) {
	return h.Fetch(ctx, ResourceSummary)
}

// FetchKilledInGaza returns the list of people killed in Gaza since October 7th.
func (h *HTTPFetcher) FetchKilledInGaza(ctx context.Context) (*Payload, error) {
	return h.Fetch(ctx, ResourceKilledInGaza)
}

// FetchPressKilledInGaza returns the list of journalists killed in Gaza since October 7th.
func (h *HTTPFetcher) FetchPressKilledInGaza(ctx context.Context) (*Payload, error) {
	return h.Fetch(ctx, ResourcePressKilledInGaza)
}

func (h *HTTPFetcher) FetchDailyCasualtiesGaza(ctx context.Context) (*Payload, error) {
	return h.Fetch(ctx, ResourceCasualtiesDailyGaza)
}

func (h *HTTPFetcher) FetchDailyCasualtiesWestBank(ctx context.Context) (*Payload, error) {
	return h.Fetch(ctx, ResourceCasualtiesDailyWestBank)
}

func (h *HTTPFetcher) FetchInfrastructureDamaged(ctx context.Context) (*Payload, error) {
	return h.Fetch(ctx, ResourceInfrastructureDamaged)
}

var _ APIFetcher = (*HTTPFetcher)(nil)

func (p *Payload) String() string {
	if p == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s (%d bytes, etag=%q)", p.Resource, len(p.Body), p.ETag)
}
