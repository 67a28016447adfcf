// Package client talks to the course catalog API and keeps the local state a
// terminal front end needs: the session and the course list it renders.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"coursecatalog/api/internal/models"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api status %d", e.Status)
	}
	return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
}

// MessageOr returns the server's message carried by err, or fallback when
// there is none (transport failures, empty bodies).
func MessageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

type AuthResponse struct {
	Token   string             `json:"token"`
	Student models.StudentView `json:"student"`
}

type errorBody struct {
	Message string `json:"message"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	session    *Session
}

// New returns a client for baseURL. Mutating calls carry the bearer token
// of session; a nil httpClient gets a default with a timeout.
func New(baseURL string, httpClient *http.Client, session *Session) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		session:    session,
	}
}

func (c *Client) Register(ctx context.Context, name, email, password string) (AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, false, &out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, false, &out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}

func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	var out []models.Course
	if err := c.do(ctx, http.MethodGet, "/api/courses", nil, false, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCourse(ctx context.Context, fields models.CourseFields) (models.Course, error) {
	var out models.Course
	if err := c.do(ctx, http.MethodPost, "/api/courses", fields, true, &out); err != nil {
		return models.Course{}, err
	}
	return out, nil
}

func (c *Client) UpdateCourse(ctx context.Context, id string, fields models.CourseFields) (models.Course, error) {
	var out models.Course
	if err := c.do(ctx, http.MethodPut, "/api/courses/"+url.PathEscape(id), fields, true, &out); err != nil {
		return models.Course{}, err
	}
	return out, nil
}

func (c *Client) DeleteCourse(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/courses/"+url.PathEscape(id), nil, true, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in any, auth bool, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth && c.session != nil && c.session.IsAuthenticated() {
		req.Header.Set("Authorization", c.session.AuthHeader())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var eb errorBody
		if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil {
			apiErr.Message = eb.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
