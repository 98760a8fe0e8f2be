// Package edgehttp implements migrate.Connection over the server's HTTP
// EdgeQL endpoint. Every call is one sequential round-trip; a client is
// owned by a single migration session and is not meant to be shared.
package edgehttp

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	migrate "github.com/MrFoxPro/edgedb-cli"
)

var _ migrate.Connection = (*Client)(nil)

// Client talks EdgeQL-over-JSON to a single database endpoint.
type Client struct {
	url    string
	user   string
	pass   string
	client *http.Client
}

// New returns a client for the database endpoint at baseURL, such as
// http://localhost:8080/db/edgedb. Credentials are sent as basic auth when
// user is non-empty.
func New(baseURL, user, pass string) *Client {
	return &Client{
		url:    baseURL,
		user:   user,
		pass:   pass,
		client: &http.Client{},
	}
}

type queryRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type queryResponse struct {
	Data  []json.RawMessage `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) roundTrip(ctx context.Context, query string, args []interface{}) ([]json.RawMessage, error) {
	req := queryRequest{Query: query}
	if len(args) > 0 {
		req.Variables = make(map[string]interface{}, len(args))
		for i, arg := range args {
			req.Variables[strconv.Itoa(i)] = arg
		}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "encode query")
	}
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url,
		bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	hreq.Header.Set("Content-Type", "application/json")
	if c.user != "" {
		hreq.SetBasicAuth(c.user, c.pass)
	}
	resp, err := c.client.Do(hreq)
	if err != nil {
		return nil, errors.Wrap(err, "query server")
	}
	defer resp.Body.Close()
	byt, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("server returned %s: %s", resp.Status, byt)
	}
	var out queryResponse
	if err := json.Unmarshal(byt, &out); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	if out.Error != nil {
		return nil, errors.New(out.Error.Message)
	}
	return out.Data, nil
}

// Execute runs a statement that produces no result.
func (c *Client) Execute(ctx context.Context, stmt string) error {
	_, err := c.roundTrip(ctx, stmt, nil)
	return err
}

// QueryOne runs a query expected to produce exactly one result.
func (c *Client) QueryOne(ctx context.Context, query string, out interface{}, args ...interface{}) error {
	found, err := c.QueryOneOpt(ctx, query, out, args...)
	if err != nil {
		return err
	}
	if !found {
		return errors.New("query returned no results")
	}
	return nil
}

// QueryOneOpt is QueryOne for queries that may produce nothing.
func (c *Client) QueryOneOpt(ctx context.Context, query string, out interface{}, args ...interface{}) (bool, error) {
	data, err := c.roundTrip(ctx, query, args)
	if err != nil {
		return false, err
	}
	switch len(data) {
	case 0:
		return false, nil
	case 1:
		if err := json.Unmarshal(data[0], out); err != nil {
			return false, errors.Wrap(err, "decode result")
		}
		return true, nil
	default:
		return false, errors.Errorf("query returned %d results, expected one", len(data))
	}
}

// Query runs a query and decodes every result into out, a pointer to a
// slice.
func (c *Client) Query(ctx context.Context, query string, out interface{}, args ...interface{}) error {
	data, err := c.roundTrip(ctx, query, args)
	if err != nil {
		return err
	}
	// Re-encode the element list so callers decode straight into a slice
	// of their own type
	joined, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "encode results")
	}
	if err := json.Unmarshal(joined, out); err != nil {
		return errors.Wrap(err, "decode results")
	}
	return nil
}
