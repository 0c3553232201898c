package rpc

import (
	"bullion/log"
	"encoding/json"
	"fmt"
	"time"

	eParser "github.com/go-errors/errors"
	"github.com/valyala/fasthttp"
)

const requestTimeout = 20 * time.Second

func getRPCRequestBody(method string, params []interface{}) string {
	for _, param := range params {
		switch param.(type) {
		case int8, uint8,
			int16, uint16,
			int, uint,
			int32, uint32,
			int64, uint64,
			bool, string:
		default:
			err := fmt.Errorf("the RPC parameter type must be integer, bool or string. current type=%T, value=%v", param, param)
			panic(err)
		}
	}

	if params == nil {
		params = []interface{}{}
	}

	// Free text (mint/burn reasons, metadata fields) flows through here;
	// marshalling keeps quotes and backslashes intact on the wire.
	body, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"id":      1,
	})
	if err != nil {
		panic(err)
	}

	return string(body)
}

// call posts one rpc request to a node whose height covers minHeight.
// A failing node is marked unavailable and the next candidate is tried;
// when every candidate failed the caller gets a transport error and
// decides the backoff, the loop never retries forever on its own.
func (c *Client) call(minHeight uint64, method string, params []interface{}, target interface{}) error {
	requestBody := []byte(getRPCRequestBody(method, params))

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod("POST")
	req.Header.SetContentType("application/json")
	req.SetBody(requestBody)

	httpClient := &fasthttp.Client{
		ReadTimeout:  requestTimeout,
		WriteTimeout: requestTimeout,
	}

	attempts := len(c.urls)
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		url, ok := c.getServer(minHeight)
		if !ok {
			return &Error{
				Kind: ErrorKindTransport,
				Op:   method,
				Msg:  fmt.Sprintf("no node at height %d or above", minHeight),
			}
		}

		req.SetRequestURI(url)
		err := httpClient.Do(req, resp)
		if err != nil {
			log.Error.Println(err)
			c.serverUnavailable(url)
			time.Sleep(50 * time.Millisecond)
			continue
		}

		if err := json.Unmarshal(resp.Body(), target); err != nil {
			log.Error.Println(eParser.Wrap(err, 0).ErrorStack())
			log.Error.Printf("Request body: %v\n", string(requestBody))
			log.Error.Printf("Response: %v\n", string(resp.Body()))
			return &Error{
				Kind: ErrorKindTransport,
				Op:   method,
				Msg:  "malformed node response",
			}
		}

		return nil
	}

	return &Error{
		Kind: ErrorKindTransport,
		Op:   method,
		Msg:  "all nodes unavailable",
	}
}

// nodeError maps a remote error object into the structured taxonomy.
func nodeError(method string, raw *rawNodeError) error {
	if raw == nil {
		return nil
	}

	return &Error{
		Kind: ErrorKindRejected,
		Op:   method,
		Code: raw.Code,
		Msg:  raw.Message,
	}
}

func notFound(method string, what string) error {
	return &Error{
		Kind: ErrorKindNotFound,
		Op:   method,
		Msg:  what,
	}
}
