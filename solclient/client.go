package solclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	pdaCacheSize      = 64
	errorBodyExcerpt  = 2048
	jsonRPCVersion    = "2.0"
	contentTypeHeader = "application/json"
)

var requestCounter uint64

// Client talks JSON-RPC to a single Solana node
type Client struct {
	endpoint   string
	httpClient *http.Client
	pdaCache   *lru.Cache[string, PublicKey]
}

// New creates a Client for the given endpoint. A nil httpClient means
// http.DefaultClient.
func New(endpoint string, httpClient *http.Client) (*Client, error) {

	if endpoint == "" {
		return nil, errors.New("RPC endpoint not configured")
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	cache, err := lru.New[string, PublicKey](pdaCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to create PDA cache")
	}

	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
		pdaCache:   cache,
	}, nil
}

// RPCError is the error object of a JSON-RPC response
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error (%d): %s", e.Code, e.Message)
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

func newRequestID() string {
	return strconv.FormatUint(atomic.AddUint64(&requestCounter, 1), 10)
}

// call executes method and decodes the result into out. A JSON null result
// leaves pointer targets nil.
func (c *Client) call(ctx context.Context, method string, params []interface{}, out interface{}) (err error) {

	start := time.Now()
	defer func() {
		observeRequest(method, start, err)
	}()

	if params == nil {
		params = []interface{}{}
	}

	payload, err := json.Marshal(rpcRequest{
		JSONRPC: jsonRPCVersion,
		ID:      newRequestID(),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return errors.Wrapf(err, "Unable to encode %s request", method)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrapf(err, "Unable to build %s request", method)
	}
	req.Header.Set("Content-Type", contentTypeHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s request failed", method)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyExcerpt))
		return errors.Errorf("%s: rpc status %d: %s", method, resp.StatusCode, string(bytes.TrimSpace(body)))
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return errors.Wrapf(err, "Unable to decode %s response", method)
	}

	if rpcResp.Error != nil {
		return errors.Wrap(rpcResp.Error, method)
	}

	if len(rpcResp.Result) == 0 {
		return errors.Errorf("%s: response missing result", method)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return errors.Wrapf(err, "Unable to decode %s result", method)
	}

	log.WithFields(log.Fields{
		"Method": method, "Took": time.Since(start),
	}).Trace("RPC call")

	return nil
}

// uint64String accepts both JSON numbers and decimal strings; jsonParsed
// account data encodes u64 fields as strings.
type uint64String uint64

func (u *uint64String) UnmarshalJSON(data []byte) error {

	s := string(bytes.Trim(data, `"`))
	if s == "" || s == "null" {
		*u = 0
		return nil
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "Invalid u64 value %q", s)
	}

	*u = uint64String(v)

	return nil
}
