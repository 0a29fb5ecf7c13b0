package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"k24chat/pkg/models"
)

// Client talks to a running k24chat server.
type Client struct {
	base    string
	http    *fasthttp.Client
	timeout time.Duration
	token   string
}

func NewClient(base string, timeout time.Duration) *Client {
	return &Client{
		base:    strings.TrimRight(base, "/"),
		http:    &fasthttp.Client{Name: "k24ctl"},
		timeout: timeout,
	}
}

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string { return fmt.Sprintf("%d: %s", e.Status, e.Message) }

func (c *Client) do(method, path string, in, out interface{}) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(c.base + path)
	if c.token != "" {
		req.Header.Set("token", c.token)
	}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		req.Header.SetContentType("application/json")
		req.SetBody(b)
	}
	if err := c.http.DoTimeout(req, resp, c.timeout); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(resp.Body(), &e)
		return &apiError{Status: resp.StatusCode(), Message: e.Error}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(resp.Body(), out)
}

func (c *Client) Login(email, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(fasthttp.MethodPost, "/auth/login/v3", map[string]string{"email": email, "password": password}, &out); err != nil {
		return err
	}
	c.token = out.Token
	return nil
}

func (c *Client) Logout() error {
	return c.do(fasthttp.MethodPost, "/auth/logout/v2", nil, nil)
}

func (c *Client) Send(channelID int, text string) (int, error) {
	var out struct {
		MessageID int `json:"messageId"`
	}
	err := c.do(fasthttp.MethodPost, "/message/send/v2", map[string]interface{}{"channelId": channelID, "message": text}, &out)
	return out.MessageID, err
}

// Newest returns the newest page of a channel, newest first.
func (c *Client) Newest(channelID int) ([]models.MessageView, error) {
	var out struct {
		Messages []models.MessageView `json:"messages"`
	}
	err := c.do(fasthttp.MethodGet, fmt.Sprintf("/channel/messages/v3?channelId=%d&start=0", channelID), nil, &out)
	return out.Messages, err
}
