package hangman

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

// DictionaryClient fetches definitions from a dictionaryapi.dev style service.
type DictionaryClient struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
}

type entry struct {
	Meanings []struct {
		Definitions []struct {
			Definition string `json:"definition"`
		} `json:"definitions"`
	} `json:"meanings"`
}

func NewDictionaryClient(baseURL string, timeout time.Duration) *DictionaryClient {
	return NewDictionaryClientWith(&fasthttp.Client{Name: "k24chat-hangman"}, baseURL, timeout)
}

// NewDictionaryClientWith uses a caller supplied fasthttp client.
func NewDictionaryClientWith(c *fasthttp.Client, baseURL string, timeout time.Duration) *DictionaryClient {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &DictionaryClient{client: c, baseURL: baseURL, timeout: timeout}
}

// Define returns the first definition of the first meaning of word.
func (d *DictionaryClient) Define(ctx context.Context, word string) (string, error) {
	timeout := d.timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return "", context.DeadlineExceeded
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(d.baseURL + url.PathEscape(word))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	if err := d.client.DoTimeout(req, resp, timeout); err != nil {
		return "", fmt.Errorf("dictionary request: %w", err)
	}
	switch resp.StatusCode() {
	case fasthttp.StatusOK:
	case fasthttp.StatusNotFound:
		return "", nil
	default:
		return "", fmt.Errorf("dictionary request: status %d", resp.StatusCode())
	}

	var entries []entry
	if err := json.Unmarshal(resp.Body(), &entries); err != nil {
		return "", nil
	}
	if len(entries) == 0 || len(entries[0].Meanings) == 0 || len(entries[0].Meanings[0].Definitions) == 0 {
		return "", nil
	}
	return strings.ToLower(entries[0].Meanings[0].Definitions[0].Definition), nil
}
