package sdk

import "net/http"

// HeaderSessionID carries the summary session between requests. The server
// issues one on the first summary request when none is sent.
const HeaderSessionID = "X-Gridcfg-Session"

// addSessionHeader attaches the current session, if any.
func (c *Client) addSessionHeader(req *http.Request) {
	if id := c.Session(); id != "" {
		req.Header.Set(HeaderSessionID, id)
	}
}

// captureSession remembers a session issued by the server.
func (c *Client) captureSession(resp *http.Response) {
	id := resp.Header.Get(HeaderSessionID)
	if id == "" {
		return
	}

	c.mu.Lock()
	c.sessionID = id
	c.mu.Unlock()
}

// Session returns the session ID used for summary requests, empty until the
// server has issued one or one was configured.
func (c *Client) Session() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}
