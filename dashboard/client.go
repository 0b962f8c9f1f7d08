// Package dashboard provides adapters for the studyhub dashboard REST API
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"studyhub"
)

type Client struct {
	baseURL string
	token   string
	cl      *http.Client
	l       log.Logger
}

func NewClient(baseURL, token string, logger log.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		cl:      &http.Client{Timeout: 20 * time.Second},
		l:       logger,
	}
}

type notificationBody struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    uint8  `json:"type"`
}

func (c *Client) CreateNotification(ctx context.Context, title, message string, severity studyhub.Severity) error {
	body := notificationBody{
		Title:   title,
		Message: message,
		Type:    uint8(severity),
	}
	return c.do(ctx, http.MethodPost, "/notifications", body, nil)
}

type courseBody struct {
	ID             studyhub.CourseID `json:"id"`
	Title          string            `json:"title"`
	CompletedHours float64           `json:"completedHours"`
}

func (c *Client) GetCourse(ctx context.Context, id studyhub.CourseID) (studyhub.Course, error) {
	var body courseBody
	if err := c.do(ctx, http.MethodGet, "/courses/"+string(id), nil, &body); err != nil {
		return studyhub.Course{}, err
	}
	return studyhub.Course{
		ID:             id,
		Title:          body.Title,
		CompletedHours: body.CompletedHours,
	}, nil
}

func (c *Client) UpdateCourse(ctx context.Context, id studyhub.CourseID, completedHours float64) error {
	body := map[string]float64{"completedHours": completedHours}
	return c.do(ctx, http.MethodPut, "/courses/"+string(id), body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, reqBody, respBody any) error {
	var reader io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.l.Debug("dashboard api call", "method", method, "path", path)
	resp, err := c.cl.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("dashboard api %s %s: status %d", method, path, resp.StatusCode)
	}

	if respBody != nil {
		return json.NewDecoder(resp.Body).Decode(respBody)
	}
	return nil
}
