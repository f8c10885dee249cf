// Package upstream is the HTTP client for the real gate-pass backend.
// When no backend is configured the client reports itself disabled and the
// services serve everything from the local record store.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/campusgate/gatepass-api/internal/models"
	"github.com/campusgate/gatepass-api/pkg/config"
	appErrors "github.com/campusgate/gatepass-api/pkg/errors"
)

// Client forwards logical operations to the remote backend. Transport
// failures come back as UPSTREAM_ERROR so callers can fall back; remote
// domain errors keep their own message and status.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client. A nil client (empty base URL) is valid and simply
// disabled.
func New(cfg config.UpstreamConfig) *Client {
	if cfg.BaseURL == "" {
		return nil
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Enabled reports whether forwarding is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// IsTransportFailure reports whether an error should trigger the local
// fallback rather than surface to the caller.
func IsTransportFailure(err error) bool {
	appErr := appErrors.FromError(err)
	return appErr != nil && appErr.Code == appErrors.ErrUpstream.Code
}

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListStudentPasses(ctx context.Context, token string) ([]models.Pass, error) {
	var out struct {
		Passes []models.Pass `json:"passes"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/student/passes", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Passes, nil
}

func (c *Client) CreatePass(ctx context.Context, token string, req models.CreatePassRequest) (*models.Pass, error) {
	var out struct {
		Pass models.Pass `json:"pass"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/student/request", token, req, &out); err != nil {
		return nil, err
	}
	return &out.Pass, nil
}

func (c *Client) ListFacultyRequests(ctx context.Context, token string, status models.PassStatus) ([]models.Pass, error) {
	path := "/api/v1/faculty/requests"
	if status != "" {
		path += "?status=" + url.QueryEscape(string(status))
	}
	var out struct {
		Requests []models.Pass `json:"requests"`
	}
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out.Requests, nil
}

func (c *Client) SetPassDecision(ctx context.Context, token string, passID int, status models.PassStatus) (*models.Pass, error) {
	var out struct {
		Pass models.Pass `json:"pass"`
	}
	path := fmt.Sprintf("/api/v1/faculty/request/%d", passID)
	if err := c.do(ctx, http.MethodPut, path, token, models.PassDecisionRequest{Status: status}, &out); err != nil {
		return nil, err
	}
	return &out.Pass, nil
}

func (c *Client) ListTeachers(ctx context.Context, token string) ([]models.Teacher, error) {
	return c.listTeachers(ctx, token, "/api/v1/teachers")
}

func (c *Client) ListPresentTeachers(ctx context.Context, token string) ([]models.Teacher, error) {
	return c.listTeachers(ctx, token, "/api/v1/teachers/present")
}

func (c *Client) listTeachers(ctx context.Context, token, path string) ([]models.Teacher, error) {
	var out struct {
		Teachers []models.Teacher `json:"teachers"`
	}
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out.Teachers, nil
}

func (c *Client) ToggleTeacherPresence(ctx context.Context, token, teacherID string) (*models.Teacher, error) {
	var out struct {
		Teacher models.Teacher `json:"teacher"`
	}
	path := "/api/v1/teachers/" + url.PathEscape(teacherID) + "/presence"
	if err := c.do(ctx, http.MethodPut, path, token, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out.Teacher, nil
}

func (c *Client) SubmitQRVerification(ctx context.Context, token string, req models.QRVerifyRequest) (*models.Pass, error) {
	var out struct {
		Pass models.Pass `json:"pass"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/security/verify", token, req, &out); err != nil {
		return nil, err
	}
	return &out.Pass, nil
}

func (c *Client) SubmitFacialVerification(ctx context.Context, token string, passID int, verified bool) (*models.Pass, error) {
	var out struct {
		Pass models.Pass `json:"pass"`
	}
	path := fmt.Sprintf("/api/v1/security/facial-verify/%d", passID)
	if err := c.do(ctx, http.MethodPut, path, token, models.FacialVerifyRequest{Verified: verified}, &out); err != nil {
		return nil, err
	}
	return &out.Pass, nil
}

func (c *Client) GetExitStatus(ctx context.Context, token string, passID int) (*models.ExitStatus, error) {
	var out struct {
		ExitStatus models.ExitStatus `json:"exit_status"`
	}
	path := fmt.Sprintf("/api/v1/passes/%d/exit-status", passID)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return &out.ExitStatus, nil
}

func (c *Client) GetStats(ctx context.Context, token string) (*models.StatsReport, error) {
	var out models.StatsReport
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/stats", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one JSON round trip and decodes the envelope data into out.
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	if !c.Enabled() {
		return appErrors.Clone(appErrors.ErrUpstream, "upstream not configured")
	}

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode upstream request")
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "build upstream request")
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "upstream request failed")
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		// Unexpected shape counts as a transport failure.
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "decode upstream response")
	}

	if !envelope.Success {
		if envelope.Error == "" || resp.StatusCode >= http.StatusInternalServerError {
			return appErrors.Clone(appErrors.ErrUpstream, "upstream returned an unusable response")
		}
		// A well-formed remote refusal surfaces to the caller as-is.
		return appErrors.New("REMOTE_ERROR", resp.StatusCode, envelope.Error)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "decode upstream payload")
		}
	}
	return nil
}
