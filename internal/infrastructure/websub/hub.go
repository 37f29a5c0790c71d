// Package websub talks to a WebSub hub and authenticates its content deliveries.
package websub

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const topicBase = "https://www.youtube.com/xml/feeds/videos.xml?channel_id="

// TopicURL is the feed topic a channel publishes to.
func TopicURL(channelID string) string {
	return topicBase + url.QueryEscape(channelID)
}

// HubClient sends subscription requests to a hub.
type HubClient struct {
	hubURL      string
	callbackURL string
	secret      string
	httpClient  *http.Client
}

// NewHubClient creates a client. secret may be empty; when set, the hub signs every delivery with it.
func NewHubClient(hubURL, callbackURL, secret string, httpClient *http.Client) *HubClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &HubClient{hubURL: hubURL, callbackURL: callbackURL, secret: secret, httpClient: httpClient}
}

// Subscribe asks the hub to push the channel's feed to the callback and returns the hub's status code.
// The error is only set when no response was received.
func (c *HubClient) Subscribe(ctx context.Context, channelID string) (int, error) {
	form := url.Values{
		"hub.mode":     {"subscribe"},
		"hub.topic":    {TopicURL(channelID)},
		"hub.callback": {c.callbackURL},
		"hub.verify":   {"async"},
	}
	if c.secret != "" {
		form.Set("hub.secret", c.secret)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.hubURL, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, fmt.Errorf("build subscribe request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("subscribe %s: %w", channelID, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	return resp.StatusCode, nil
}

// VerifySignature checks an X-Hub-Signature header ("sha1=<hex>") against body.
func VerifySignature(secret string, body []byte, header string) bool {
	algo, sig, ok := strings.Cut(header, "=")
	if !ok || algo != "sha1" {
		return false
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

// Sign returns the X-Hub-Signature value a hub would send for body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(body)
	return "sha1=" + hex.EncodeToString(mac.Sum(nil))
}
