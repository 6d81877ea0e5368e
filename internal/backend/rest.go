package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RESTGateway talks to a hosted auth + PostgREST service.
type RESTGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *zap.Logger
}

var _ Gateway = (*RESTGateway)(nil)

// NewRESTGateway never fails; a missing URL or key surfaces when an
// operation runs.
func NewRESTGateway(baseURL, apiKey string, client *http.Client, log *zap.Logger) *RESTGateway {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &RESTGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
		log:     log.With(zap.String("gateway", "rest")),
	}
}

type restRequest struct {
	method string
	path   string
	query  url.Values
	token  string
	body   any
	prefer string
}

type restError struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (g *RESTGateway) do(ctx context.Context, req restRequest) (*http.Response, []byte, error) {
	if g.baseURL == "" || g.apiKey == "" {
		return nil, nil, errUnavailable("backend URL or API key is not configured")
	}

	target := g.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, nil, errBadRequest(fmt.Sprintf("encode request: %v", err))
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, nil, errBadRequest(fmt.Sprintf("build request: %v", err))
	}

	bearer := req.token
	if bearer == "" {
		bearer = g.apiKey
	}
	httpReq.Header.Set("apikey", g.apiKey)
	httpReq.Header.Set("Authorization", "Bearer "+bearer)
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.prefer != "" {
		httpReq.Header.Set("Prefer", req.prefer)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		g.log.Error("Backend request failed",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Error(err),
		)
		return nil, nil, errUnavailable(err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, errUnavailable(fmt.Sprintf("read response: %v", err))
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := parseRESTError(resp.StatusCode, data)
		g.log.Warn("Backend returned error",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Int("status", resp.StatusCode),
			zap.String("code", apiErr.Code),
			zap.String("message", apiErr.Message),
		)
		return nil, nil, apiErr
	}

	return resp, data, nil
}

func parseRESTError(status int, data []byte) *Error {
	var body restError
	_ = json.Unmarshal(data, &body)

	message := firstNonEmpty(body.Msg, body.Message, body.ErrorDescription, body.Error)
	if message == "" {
		message = http.StatusText(status)
	}

	code := body.ErrorCode
	if pgCode, ok := body.Code.(string); ok && code == "" {
		switch pgCode {
		case "23505":
			code = CodeConflict
		case "23503", "23514", "23502":
			code = CodeBadRequest
		case "42P01":
			code = CodeNotFound
		}
	}
	if code == "" {
		switch {
		case strings.Contains(message, "Invalid login credentials"):
			code = CodeInvalidCredentials
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			code = CodeSessionNotFound
		case status == http.StatusNotFound:
			code = CodeNotFound
		case status == http.StatusConflict:
			code = CodeConflict
		case status >= http.StatusInternalServerError:
			code = CodeUnavailable
		default:
			code = CodeBadRequest
		}
	}

	return &Error{Code: code, Message: message, Status: status}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ==================== AUTH ====================

type tokenResponse struct {
	AccessToken string   `json:"access_token"`
	ExpiresIn   int64    `json:"expires_in"`
	ExpiresAt   int64    `json:"expires_at"`
	User        Identity `json:"user"`
}

func (g *RESTGateway) SignUp(ctx context.Context, email, password string, metadata Metadata) (*Identity, error) {
	_, data, err := g.do(ctx, restRequest{
		method: http.MethodPost,
		path:   "/auth/v1/signup",
		body: map[string]any{
			"email":    email,
			"password": password,
			"data":     metadata,
		},
	})
	if err != nil {
		return nil, err
	}

	// The body is either a bare user or a session wrapping one.
	var wrapped struct {
		User *Identity `json:"user"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.User != nil && wrapped.User.ID != "" {
		return wrapped.User, nil
	}

	var identity Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return nil, errUnexpected(fmt.Sprintf("decode sign up response: %v", err))
	}
	return &identity, nil
}

func (g *RESTGateway) SignIn(ctx context.Context, email, password string) (*Session, error) {
	_, data, err := g.do(ctx, restRequest{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"password"}},
		body: map[string]string{
			"email":    email,
			"password": password,
		},
	})
	if err != nil {
		return nil, err
	}

	var token tokenResponse
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, errUnexpected(fmt.Sprintf("decode token response: %v", err))
	}

	expiresAt := time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	if token.ExpiresAt > 0 {
		expiresAt = time.Unix(token.ExpiresAt, 0)
	}

	return &Session{
		AccessToken: token.AccessToken,
		ExpiresAt:   expiresAt,
		User:        token.User,
	}, nil
}

func (g *RESTGateway) SignOut(ctx context.Context, token string) error {
	_, _, err := g.do(ctx, restRequest{
		method: http.MethodPost,
		path:   "/auth/v1/logout",
		token:  token,
	})
	return err
}

func (g *RESTGateway) User(ctx context.Context, token string) (*Identity, error) {
	_, data, err := g.do(ctx, restRequest{
		method: http.MethodGet,
		path:   "/auth/v1/user",
		token:  token,
	})
	if err != nil {
		return nil, err
	}

	var identity Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return nil, errUnexpected(fmt.Sprintf("decode user: %v", err))
	}
	return &identity, nil
}

// DeleteUser calls the admin endpoint, so the API key must be a service key.
func (g *RESTGateway) DeleteUser(ctx context.Context, id string) error {
	_, _, err := g.do(ctx, restRequest{
		method: http.MethodDelete,
		path:   "/auth/v1/admin/users/" + url.PathEscape(id),
	})
	return err
}

func (g *RESTGateway) VerifyEmail(ctx context.Context, email, code string) error {
	_, _, err := g.do(ctx, restRequest{
		method: http.MethodPost,
		path:   "/auth/v1/verify",
		body: map[string]string{
			"type":  "signup",
			"email": email,
			"token": code,
		},
	})
	return err
}

func (g *RESTGateway) ResendConfirmation(ctx context.Context, email string) error {
	_, _, err := g.do(ctx, restRequest{
		method: http.MethodPost,
		path:   "/auth/v1/resend",
		body: map[string]string{
			"type":  "signup",
			"email": email,
		},
	})
	return err
}

// ==================== RECORDS ====================

func tablePath(table string) string {
	return "/rest/v1/" + url.PathEscape(table)
}

func filterQuery(filters []Filter) url.Values {
	query := url.Values{}
	for _, f := range filters {
		query.Add(f.Column, "eq."+fmt.Sprint(f.Value))
	}
	return query
}

func (g *RESTGateway) Insert(ctx context.Context, token, table string, record Record) (Record, error) {
	_, data, err := g.do(ctx, restRequest{
		method: http.MethodPost,
		path:   tablePath(table),
		token:  token,
		body:   record,
		prefer: "return=representation",
	})
	if err != nil {
		return nil, err
	}

	var rows []Record
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errUnexpected(fmt.Sprintf("decode insert response: %v", err))
	}
	if len(rows) == 0 {
		return nil, errUnexpected("insert returned no rows")
	}
	return rows[0], nil
}

func (g *RESTGateway) Query(ctx context.Context, token, table string, filters []Filter) ([]Record, error) {
	query := filterQuery(filters)
	query.Set("select", "*")

	_, data, err := g.do(ctx, restRequest{
		method: http.MethodGet,
		path:   tablePath(table),
		query:  query,
		token:  token,
	})
	if err != nil {
		return nil, err
	}

	var rows []Record
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errUnexpected(fmt.Sprintf("decode query response: %v", err))
	}
	return rows, nil
}

// Count reads the total from the Content-Range header of a HEAD request.
func (g *RESTGateway) Count(ctx context.Context, token, table string, filters []Filter) (int64, error) {
	query := filterQuery(filters)
	query.Set("select", "*")

	resp, _, err := g.do(ctx, restRequest{
		method: http.MethodHead,
		path:   tablePath(table),
		query:  query,
		token:  token,
		prefer: "count=exact",
	})
	if err != nil {
		return 0, err
	}

	return parseContentRange(resp.Header.Get("Content-Range"))
}

// parseContentRange reads "0-24/57" or "*/0".
func parseContentRange(header string) (int64, error) {
	_, total, ok := strings.Cut(header, "/")
	if !ok || total == "*" {
		return 0, errUnexpected(fmt.Sprintf("missing count in Content-Range %q", header))
	}
	n, err := strconv.ParseInt(total, 10, 64)
	if err != nil {
		return 0, errUnexpected(fmt.Sprintf("invalid Content-Range %q", header))
	}
	return n, nil
}

func (g *RESTGateway) Delete(ctx context.Context, token, table string, filters []Filter) error {
	if len(filters) == 0 {
		return errBadRequest("DELETE requires a WHERE clause")
	}

	_, _, err := g.do(ctx, restRequest{
		method: http.MethodDelete,
		path:   tablePath(table),
		query:  filterQuery(filters),
		token:  token,
	})
	return err
}
