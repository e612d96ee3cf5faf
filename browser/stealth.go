package browser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/episodl/episodl/util"
	"github.com/go-rod/rod/lib/proto"
)

// DevTools sends a Chrome DevTools Protocol command to the controlled browser.
type DevTools interface {
	Execute(ctx context.Context, method string, params any) error
}

// CDP relays DevTools commands through ChromeDriver's vendor endpoint.
type CDP struct {
	Endpoint string
	Client   *http.Client
}

// NewCDP returns a relay for the session at sessionID on the driver listening at driverURL.
func NewCDP(driverURL, sessionID string, client *http.Client) *CDP {
	return &CDP{
		Endpoint: strings.TrimSuffix(driverURL, "/") + "/session/" + sessionID + "/goog/cdp/execute",
		Client:   client,
	}
}

func (c *CDP) Execute(ctx context.Context, method string, params any) error {
	if params == nil {
		params = struct{}{}
	}

	body, err := json.Marshal(struct {
		Cmd    string `json:"cmd"`
		Params any    `json:"params"`
	}{method, params})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode == http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var failure struct {
		Value struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		} `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&failure); err != nil || failure.Value.Message == "" {
		return fmt.Errorf("%s: unexpected status %s", method, resp.Status)
	}
	return fmt.Errorf("%s: %s: %s", method, failure.Value.Error, failure.Value.Message)
}

// navigatorProxy hides navigator.webdriver from page scripts.
const navigatorProxy = `
Object.defineProperty(window, "navigator", {
	value: new Proxy(navigator, {
		has: (target, key) => (key === "webdriver" ? false : key in target),
		get: (target, key) =>
			key === "webdriver"
				? false
				: typeof target[key] === "function"
				? target[key].bind(target)
				: target[key],
	}),
});
`

// Patch removes the driver's injected cdc_ helper script and installs the
// navigator proxy on every new document.
func Patch(ctx context.Context, devtools DevTools) error {
	remove := proto.PageRemoveScriptToEvaluateOnNewDocument{Identifier: "1"}
	if err := devtools.Execute(ctx, remove.ProtoReq(), remove); err != nil {
		return fmt.Errorf("remove driver script: %w", err)
	}

	add := proto.PageAddScriptToEvaluateOnNewDocument{Source: navigatorProxy}
	if err := devtools.Execute(ctx, add.ProtoReq(), add); err != nil {
		return fmt.Errorf("install navigator proxy: %w", err)
	}

	return nil
}
