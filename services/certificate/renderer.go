package certificate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Request is the payload understood by the PDF rendering service.
type Request struct {
	Name      string `json:"name"`
	Domain    string `json:"domain"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Gender    string `json:"gender"`
}

// RenderError is a non-2xx answer from the rendering service. Its status
// is passed through to the client.
type RenderError struct {
	Status  int
	Message string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("certificate service returned %d: %s", e.Status, e.Message)
}

// Renderer calls the external PDF rendering service.
type Renderer struct {
	client *resty.Client
}

func NewRenderer(baseURL string, timeout time.Duration) *Renderer {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &Renderer{client: client}
}

// Render returns the PDF bytes for req.
func (r *Renderer) Render(ctx context.Context, req Request) ([]byte, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/api/generate-certificate")
	if err != nil {
		return nil, fmt.Errorf("call certificate service: %w", err)
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		var body struct {
			Error string `json:"error"`
		}
		msg := "Certificate service error"
		if json.Unmarshal(resp.Body(), &body) == nil && body.Error != "" {
			msg = body.Error
		}
		return nil, &RenderError{Status: resp.StatusCode(), Message: msg}
	}
	return resp.Body(), nil
}
