/*
 * HTTP client of the Typesense search service
 */

package typesense

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Jeffail/gabs/v2"
	"github.com/cert-lv/tscli/query"
	"go.mongodb.org/mongo-driver/bson"
)

const apiKeyHeader = "X-TYPESENSE-API-KEY"

type Config struct {
	// Base URL, like "http://localhost:8108"
	URL     string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	url    string
	apiKey string
	http   *http.Client
}

/*
 * APIError is a non successful response of the service
 */
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Request failed with HTTP code %d | Server said: %s", e.StatusCode, e.Message)
}

func New(cfg Config) (*Client, error) {

	// Validate necessary parameters
	if cfg.URL == "" {
		return nil, fmt.Errorf("'url' is not defined")
	} else if !strings.HasPrefix(cfg.URL, "http") {
		return nil, fmt.Errorf("'url' must start with 'http[s]://'")
	} else if cfg.APIKey == "" {
		return nil, fmt.Errorf("'apiKey' is not defined")
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Second
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: cfg.Timeout,
			DialContext: (&net.Dialer{
				Timeout:   cfg.Timeout,
				KeepAlive: cfg.Timeout,
			}).DialContext,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}

	return &Client{
		url:    strings.TrimRight(cfg.URL, "/"),
		apiKey: cfg.APIKey,
		http:   client,
	}, nil
}

// Search response fields in use
type searchResponse struct {
	Hits []struct {
		Document bson.D `bson:"document"`
	} `bson:"hits"`
	Found        int64 `bson:"found"`
	SearchTimeMS int64 `bson:"search_time_ms"`
}

/*
 * Search documents of the spec's collection.
 * Documents keep the fields order of the response
 */
func (c *Client) Search(ctx context.Context, spec query.Spec) (*query.Result, error) {
	body, err := c.get(ctx, "/collections/"+url.PathEscape(spec.Collection)+"/documents/search", Params(spec))
	if err != nil {
		return nil, err
	}

	var response searchResponse

	err = bson.UnmarshalExtJSON(body, false, &response)
	if err != nil {
		return nil, fmt.Errorf("Can't decode search response: %s", err.Error())
	}

	result := &query.Result{
		Hits:         make([]query.Document, 0, len(response.Hits)),
		Found:        response.Found,
		SearchTimeMS: response.SearchTimeMS,
	}

	for _, hit := range response.Hits {
		result.Hits = append(result.Hits, hit.Document)
	}

	return result, nil
}

/*
 * Query string parameters of the search request
 */
func Params(spec query.Spec) url.Values {
	params := url.Values{}

	params.Set("q", spec.TextQuery)
	params.Set("page", strconv.Itoa(spec.Page))
	params.Set("per_page", strconv.Itoa(spec.PerPage))

	if spec.Filter != "" {
		params.Set("filter_by", spec.Filter)
	}

	if len(spec.Sort) > 0 {
		sorts := make([]string, 0, len(spec.Sort))
		for _, s := range spec.Sort {
			sorts = append(sorts, s.Field+":"+s.Direction)
		}

		params.Set("sort_by", strings.Join(sorts, ","))
	}

	if len(spec.Projection) > 0 {
		params.Set("include_fields", strings.Join(spec.Projection, ","))
	}

	return params
}

/*
 * Send a GET request and return a body of the successful response
 */
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.url + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("Can't create a GET request: %s", err.Error())
	}

	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("User-Agent", "tscli")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Can't do a search service request: %s", err.Error())
	}
	defer resp.Body.Close()

	body := &bytes.Buffer{}
	_, err = body.ReadFrom(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("Can't read a search service response: %s", err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body.Bytes(), resp.Status),
		}
	}

	return body.Bytes(), nil
}

// The service describes errors as {"message": "..."}
func errorMessage(body []byte, status string) string {
	parsed, err := gabs.ParseJSON(body)
	if err == nil {
		if m := parsed.Path("message"); m != nil {
			if msg, ok := m.Data().(string); ok {
				return msg
			}
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}

	return status
}
