package userinfo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	errors "github.com/frahmantamala/chat-admin/internal"
	"github.com/frahmantamala/chat-admin/internal/settings"
	"github.com/frahmantamala/chat-admin/internal/user"
)

// Result is the outcome reported by mutating endpoints.
type Result struct {
	Success bool `json:"success"`
}

// Endpoints is the backend surface the panel and its actions call.
type Endpoints interface {
	Info(ctx context.Context, lookup user.Lookup) (*user.User, error)
	Delete(ctx context.Context, req user.DeleteRequest) (Result, error)
	SetActiveStatus(ctx context.Context, req user.SetActiveStatusRequest) (Result, error)
	SetAdminStatus(ctx context.Context, userID string, admin bool) error
}

// SettingsSource supplies settings snapshots and change notifications.
type SettingsSource interface {
	CurrentSettings(ctx context.Context) (settings.Snapshot, error)
	Subscribe(fn func(settings.Snapshot)) func()
}

type UserService interface {
	Info(ctx context.Context, lookup user.Lookup, full bool) (*user.User, error)
	Delete(ctx context.Context, req user.DeleteRequest) error
	SetActiveStatus(ctx context.Context, req user.SetActiveStatusRequest) (*user.User, error)
	SetAdminStatus(ctx context.Context, req user.SetAdminStatusRequest) (*user.User, error)
}

// ServiceEndpoints calls the user service in-process.
type ServiceEndpoints struct {
	Service  UserService
	FullInfo bool
}

func NewServiceEndpoints(service UserService, fullInfo bool) *ServiceEndpoints {
	return &ServiceEndpoints{Service: service, FullInfo: fullInfo}
}

func (e *ServiceEndpoints) Info(ctx context.Context, lookup user.Lookup) (*user.User, error) {
	return e.Service.Info(ctx, lookup, e.FullInfo)
}

func (e *ServiceEndpoints) Delete(ctx context.Context, req user.DeleteRequest) (Result, error) {
	if err := e.Service.Delete(ctx, req); err != nil {
		return Result{}, err
	}
	return Result{Success: true}, nil
}

func (e *ServiceEndpoints) SetActiveStatus(ctx context.Context, req user.SetActiveStatusRequest) (Result, error) {
	if _, err := e.Service.SetActiveStatus(ctx, req); err != nil {
		return Result{}, err
	}
	return Result{Success: true}, nil
}

func (e *ServiceEndpoints) SetAdminStatus(ctx context.Context, userID string, admin bool) error {
	_, err := e.Service.SetAdminStatus(ctx, user.SetAdminStatusRequest{UserID: userID, Admin: admin})
	return err
}

type HTTPConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// HTTPEndpoints talks to a running chat-admin server. It also serves settings.
type HTTPEndpoints struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *slog.Logger
}

func NewHTTPEndpoints(config HTTPConfig, logger *slog.Logger) *HTTPEndpoints {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPEndpoints{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		token:   config.Token,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (e *HTTPEndpoints) Info(ctx context.Context, lookup user.Lookup) (*user.User, error) {
	query := url.Values{}
	if lookup.UserID != "" {
		query.Set("userId", lookup.UserID)
	} else {
		query.Set("username", lookup.Username)
	}

	var resp user.InfoResponse
	if err := e.do(ctx, http.MethodGet, "/users.info", query, nil, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, errors.ErrUserNotFound
	}
	return resp.User, nil
}

// Me returns the user the configured token belongs to.
func (e *HTTPEndpoints) Me(ctx context.Context) (*user.User, error) {
	var resp user.InfoResponse
	if err := e.do(ctx, http.MethodGet, "/me", nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, errors.ErrUserNotFound
	}
	return resp.User, nil
}

func (e *HTTPEndpoints) Delete(ctx context.Context, req user.DeleteRequest) (Result, error) {
	var result Result
	err := e.do(ctx, http.MethodPost, "/users.delete", nil, req, &result)
	return result, err
}

func (e *HTTPEndpoints) SetActiveStatus(ctx context.Context, req user.SetActiveStatusRequest) (Result, error) {
	var result Result
	err := e.do(ctx, http.MethodPost, "/users.setActiveStatus", nil, req, &result)
	return result, err
}

func (e *HTTPEndpoints) SetAdminStatus(ctx context.Context, userID string, admin bool) error {
	var result Result
	return e.do(ctx, http.MethodPost, "/users.setAdminStatus", nil, user.SetAdminStatusRequest{UserID: userID, Admin: admin}, &result)
}

func (e *HTTPEndpoints) CurrentSettings(ctx context.Context) (settings.Snapshot, error) {
	var resp settings.PublicSettingsResponse
	if err := e.do(ctx, http.MethodGet, "/settings.public", nil, nil, &resp); err != nil {
		return settings.Snapshot{}, err
	}
	return resp.Settings, nil
}

// Subscribe is a no-op: a remote client refetches settings on every load.
func (e *HTTPEndpoints) Subscribe(fn func(settings.Snapshot)) func() {
	return func() {}
}

func (e *HTTPEndpoints) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	target := e.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Warn("api request failed", "method", method, "path", path, "error", err)
		return errors.NewExternalError("server unreachable", errors.ErrCodeServerUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body struct {
		Success bool             `json:"success"`
		Error   *errors.AppError `json:"error"`
	}
	err := json.NewDecoder(resp.Body).Decode(&body)
	if err != nil || body.Error == nil {
		return errors.NewExternalError(fmt.Sprintf("server returned status %d", resp.StatusCode), errors.ErrCodeServerUnreachable, nil).
			WithCause(err)
	}
	body.Error.StatusCode = resp.StatusCode
	if body.Error.Type == errors.ErrorTypeValidation {
		body.Error.Details = validationDetails(body.Error.Details)
	}
	return body.Error
}

// validationDetails restores the typed field list lost in the generic JSON decode.
func validationDetails(details interface{}) interface{} {
	raw, err := json.Marshal(details)
	if err != nil {
		return details
	}
	var typed errors.ValidationErrors
	if err := json.Unmarshal(raw, &typed); err != nil || len(typed.Errors) == 0 {
		return details
	}
	return typed
}
