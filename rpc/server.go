package rpc

import (
	"bullion/util"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
)

// Client is the façade over the external token ledger's node pool.
// It keeps per-node heights so reads can demand a node that has already
// seen a given block; unreachable nodes are marked with height -1 and
// re-probed by the height tracer.
type Client struct {
	urls []string

	sLock   sync.Mutex
	servers map[string]int64

	// BestHeight is the highest height any node reported.
	BestHeight util.SafeCounter
}

type serverInfo struct {
	url    string
	height int64
}

// NewClient builds a client over the given node urls. The pool starts
// unprobed; RefreshServers or TraceBestHeight fills in heights.
func NewClient(urls []string) *Client {
	c := &Client{
		urls:    urls,
		servers: make(map[string]int64, len(urls)),
	}
	for _, url := range urls {
		c.servers[url] = -1
	}
	return c
}

// getServer randomly returns one node whose height is at least minHeight.
func (c *Client) getServer(minHeight uint64) (string, bool) {
	c.sLock.Lock()
	defer c.sLock.Unlock()

	candidates := []string{}

	for url, height := range c.servers {
		if height >= int64(minHeight) {
			// Prefer a local node when one qualifies.
			if strings.Contains(url, "127.0.0.1") ||
				strings.Contains(url, "localhost") {
				candidates = append(candidates, url)
			}

			candidates = append(candidates, url)
		}
	}

	l := len(candidates)
	if l == 0 {
		return "", false
	}

	return candidates[rand.Intn(l)], true
}

func (c *Client) serverUnavailable(url string) {
	c.sLock.Lock()
	defer c.sLock.Unlock()

	// Incase the pool changed (e.g. reloaded due to config file change).
	if _, ok := c.servers[url]; ok {
		c.servers[url] = -1
	}
}

// ServerStatus returns a printable snapshot of the node pool.
func (c *Client) ServerStatus() string {
	c.sLock.Lock()
	defer c.sLock.Unlock()

	var b strings.Builder
	for host, height := range c.servers {
		fmt.Fprintf(&b, "%s: %d\n", host, height)
	}
	return b.String()
}

// TraceBestHeight refreshes node heights until stop is closed.
func (c *Client) TraceBestHeight(stop <-chan struct{}) {
	for {
		c.RefreshServers()

		select {
		case <-stop:
			return
		case <-time.After(3 * time.Second):
		}
	}
}

// RefreshServers updates heights of all rpc nodes and returns the best.
func (c *Client) RefreshServers() int64 {
	// It takes time to get heights.
	serverInfos := c.getHeights()

	c.sLock.Lock()

	c.servers = serverInfos
	bestHeight := int64(-1)
	for _, height := range serverInfos {
		if bestHeight < height {
			bestHeight = height
		}
	}
	if bestHeight >= 0 {
		c.BestHeight.Set(uint64(bestHeight))
	}

	c.sLock.Unlock()

	return bestHeight
}

// getHeights gets current height of all rpc nodes concurrently.
func (c *Client) getHeights() map[string]int64 {
	ch := make(chan serverInfo, len(c.urls))

	for _, url := range c.urls {
		go func(url string, ch chan<- serverInfo) {
			height, _ := getHeightFrom(url)
			ch <- serverInfo{
				url:    url,
				height: height,
			}
		}(url, ch)
	}

	serverInfos := make(map[string]int64)

	for range c.urls {
		s := <-ch
		serverInfos[s.url] = s.height
	}

	close(ch)

	return serverInfos
}

// getHeightFrom returns current block height of the given rpc node.
func getHeightFrom(url string) (int64, error) {
	args := getRPCRequestBody("getblockcount", nil)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod("POST")
	req.Header.SetContentType("application/json")
	req.SetRequestURI(url)
	req.SetBody([]byte(args))

	httpClient := &fasthttp.Client{
		ReadTimeout:  requestTimeout,
		WriteTimeout: requestTimeout,
	}

	if err := httpClient.Do(req, resp); err != nil {
		return -1, err
	}

	respData := BlockCountResponse{}
	if err := json.Unmarshal(resp.Body(), &respData); err != nil {
		return -1, err
	}

	return respData.Result - 1, nil
}
