// Package api is a thin client of the khronos HTTP API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/sibeni-li/khronos/internal/common"
	"github.com/sibeni-li/khronos/internal/netx"
)

// Error is a non-2xx answer from the server. It unwraps to the matching
// common sentinel where one exists.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return common.ErrorAlreadyExists
	default:
		return nil
	}
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// SetToken sets the bearer token sent with authenticated calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (c *Client) Register(ctx context.Context, username, password, confirmation string) (string, error) {
	var out tokenResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/register", map[string]string{
		"username":     username,
		"password":     password,
		"confirmation": confirmation,
	}, &out)
	return out.AccessToken, err
}

func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out tokenResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/login", map[string]string{
		"username": username,
		"password": password,
	}, &out)
	return out.AccessToken, err
}

// Upload sends one profiling document and returns the new analysis id.
func (c *Client) Upload(ctx context.Context, filename string, raw []byte) (int64, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(common.UploadFormField, filename)
	if err != nil {
		return 0, err
	}
	if _, err := fw.Write(raw); err != nil {
		return 0, err
	}
	if err := mw.Close(); err != nil {
		return 0, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/upload", &body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		AnalysisID int64 `json:"analysis_id"`
	}
	if err := c.do(req, &out); err != nil {
		return 0, err
	}
	return out.AnalysisID, nil
}

func (c *Client) History(ctx context.Context) ([]Analysis, error) {
	var out []Analysis
	err := c.doJSON(ctx, http.MethodGet, "/api/history", nil, &out)
	return out, err
}

func (c *Client) Dashboard(ctx context.Context) (*Summary, error) {
	var out Summary
	if err := c.doJSON(ctx, http.MethodGet, "/api/dashboard", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Report(ctx context.Context, id int64) (*Report, error) {
	var out Report
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/analyses/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DownloadLibrary writes the profiler library archive to w.
func (c *Client) DownloadLibrary(ctx context.Context, w io.Writer) (int64, error) {
	return netx.Download(ctx, c.http, c.baseURL+"/download", w)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
