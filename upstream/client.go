// Package upstream is the HTTP client for the external REST API that owns
// all durable data: accounts, the product catalog, and inbound contact
// messages. The gateway never persists these itself.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/lumosdigital/backoffice/models"
	"github.com/lumosdigital/backoffice/services"
	"go.uber.org/zap"
)

// Client talks to the upstream REST API. All methods map transport and
// status failures into the services.DomainError taxonomy.
type Client struct {
	baseURL    string
	loginPath  string
	httpClient *http.Client
	logger     *zap.Logger
}

// Config holds upstream client configuration.
type Config struct {
	BaseURL   string
	LoginPath string
	Timeout   time.Duration
}

// NewClient creates a new upstream API client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.LoginPath == "" {
		cfg.LoginPath = "api/account/login"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		loginPath:  strings.TrimLeft(cfg.LoginPath, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Login posts credentials to the authentication endpoint and returns the
// raw response body. The body is left undecoded: the upstream returns one
// of several shapes, and shape resolution belongs to the auth normalizer.
func (c *Client) Login(ctx context.Context, email, password string) ([]byte, error) {
	body, status, err := c.do(ctx, http.MethodPost, c.loginPath, "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, loginStatusError(status, body)
	}
	return body, nil
}

// Products

type productRecord struct {
	MongoID    string `json:"_id"`
	ID         string `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	ImageURL   string `json:"imageUrl"`
	PostedDate string `json:"postedDate"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// ListProducts fetches the full product catalog.
func (c *Client) ListProducts(ctx context.Context, token string) ([]models.Product, error) {
	var records []productRecord
	if err := c.get(ctx, "products", token, &records); err != nil {
		return nil, err
	}
	return toProducts(records), nil
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, token, id string) (*models.Product, error) {
	var record productRecord
	if err := c.get(ctx, "products/"+url.PathEscape(id), token, &record); err != nil {
		return nil, err
	}
	p := record.toProduct()
	return &p, nil
}

// CreateProduct adds a product to the catalog.
func (c *Client) CreateProduct(ctx context.Context, token string, input models.ProductInput) (*models.Product, error) {
	var record productRecord
	if err := c.send(ctx, http.MethodPost, "products/add", token, input, &record); err != nil {
		return nil, err
	}
	p := record.toProduct()
	return &p, nil
}

// UpdateProduct replaces a product's editable fields.
func (c *Client) UpdateProduct(ctx context.Context, token, id string, input models.ProductInput) (*models.Product, error) {
	var record productRecord
	if err := c.send(ctx, http.MethodPut, "products/"+url.PathEscape(id), token, input, &record); err != nil {
		return nil, err
	}
	p := record.toProduct()
	return &p, nil
}

// DeleteProduct removes a product from the catalog.
func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	return c.send(ctx, http.MethodDelete, "products/"+url.PathEscape(id), token, nil, nil)
}

// Messages

type messageRecord struct {
	MongoID        string `json:"_id"`
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Message        string `json:"message"`
	Read           bool   `json:"read"`
	CreatedAt      string `json:"createdAt"`
}

// SendMessage submits a public contact-form message.
func (c *Client) SendMessage(ctx context.Context, input models.ContactInput) error {
	return c.send(ctx, http.MethodPost, "message/sendMessage", "", input, nil)
}

// ListMessages fetches all inbound messages.
func (c *Client) ListMessages(ctx context.Context, token string) ([]models.Message, error) {
	var records []messageRecord
	if err := c.get(ctx, "message", token, &records); err != nil {
		return nil, err
	}
	return toMessages(records), nil
}

// GetConversation fetches the messages of one conversation.
func (c *Client) GetConversation(ctx context.Context, token, conversationID string) ([]models.Message, error) {
	var records []messageRecord
	if err := c.get(ctx, "messages/"+url.PathEscape(conversationID), token, &records); err != nil {
		return nil, err
	}
	return toMessages(records), nil
}

// DeleteMessage removes a message.
func (c *Client) DeleteMessage(ctx context.Context, token, id string) error {
	return c.send(ctx, http.MethodDelete, "message/"+url.PathEscape(id)+"/delete", token, nil, nil)
}

// Accounts

type accountRecord struct {
	MongoID   string `json:"_id"`
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, input models.SignupInput) error {
	return c.send(ctx, http.MethodPost, "account/signup", "", input, nil)
}

// UpdateProfile updates the profile of the account identified by email.
func (c *Client) UpdateProfile(ctx context.Context, token, email string, input models.ProfileUpdateInput) error {
	return c.send(ctx, http.MethodPut, "users/update/"+url.PathEscape(email), token, input, nil)
}

// ChangePassword changes the password of the account identified by email.
func (c *Client) ChangePassword(ctx context.Context, token, email string, input models.PasswordChangeInput) error {
	return c.send(ctx, http.MethodPut, "users/change-password/"+url.PathEscape(email), token, input, nil)
}

// DeleteUser removes the account identified by email.
func (c *Client) DeleteUser(ctx context.Context, token, email string) error {
	return c.send(ctx, http.MethodDelete, "users/delete/"+url.PathEscape(email), token, nil, nil)
}

// ListUsers fetches all accounts.
func (c *Client) ListUsers(ctx context.Context, token string) ([]models.Account, error) {
	var records []accountRecord
	if err := c.get(ctx, "users/all", token, &records); err != nil {
		return nil, err
	}
	return toAccounts(records), nil
}

// GetUserByEmail fetches one account by email.
func (c *Client) GetUserByEmail(ctx context.Context, token, email string) (*models.Account, error) {
	var record accountRecord
	if err := c.get(ctx, "users/"+url.PathEscape(email), token, &record); err != nil {
		return nil, err
	}
	a := record.toAccount()
	return &a, nil
}

// ForgotPassword starts the password reset flow.
func (c *Client) ForgotPassword(ctx context.Context, input models.PasswordResetRequestInput) error {
	return c.send(ctx, http.MethodPost, "auth/forgot-password", "", input, nil)
}

// ResetPassword completes the password reset flow.
func (c *Client) ResetPassword(ctx context.Context, input models.PasswordResetInput) error {
	return c.send(ctx, http.MethodPost, "auth/reset-password", "", input, nil)
}

// Request plumbing

// get performs an authenticated GET and decodes the (possibly enveloped) body into out.
func (c *Client) get(ctx context.Context, path, token string, out interface{}) error {
	body, status, err := c.do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return statusError(status, body)
	}
	return decodeEnvelope(body, out)
}

// send performs a write request. out may be nil when the response body is irrelevant.
func (c *Client) send(ctx context.Context, method, path, token string, payload, out interface{}) error {
	body, status, err := c.do(ctx, method, path, token, payload)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return statusError(status, body)
	}
	if out == nil {
		return nil
	}
	return decodeEnvelope(body, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, payload interface{}) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, services.WrapInternal("failed to marshal request", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, reqBody)
	if err != nil {
		return nil, 0, services.WrapInternal("failed to create request", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		mapped := mapTransportError(err)
		c.logger.Warn("upstream request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, 0, mapped
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, services.WrapError(services.ErrorTypeUpstreamServer, "failed to read upstream response", err)
	}

	c.logger.Debug("upstream request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	return body, resp.StatusCode, nil
}

// decodeEnvelope decodes body into out, unwrapping one {"data": ...} or
// {"success": ..., "data": ...} envelope when present.
func decodeEnvelope(body []byte, out interface{}) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		body = envelope.Data
	}
	if err := json.Unmarshal(body, out); err != nil {
		return services.WrapError(services.ErrorTypeUnrecognizedResponse, "failed to decode upstream response", err)
	}
	return nil
}

// upstreamMessage pulls a human-readable message out of an error body, if any.
func upstreamMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

// loginStatusError maps authentication endpoint statuses. 401 means the
// credentials were wrong regardless of what the body says.
func loginStatusError(status int, body []byte) error {
	switch {
	case status == http.StatusUnauthorized:
		return services.ErrInvalidCredentials
	case status == http.StatusForbidden:
		return services.ErrForbidden
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		msg := upstreamMessage(body)
		if msg == "" {
			msg = "the authentication server rejected the request"
		}
		return services.NewDomainError(services.ErrorTypeInvalidRequest, msg, nil)
	case status >= 500:
		return services.NewDomainError(services.ErrorTypeUpstreamServer, "authentication server error", nil).
			WithDetail("status", status)
	default:
		return services.NewDomainError(services.ErrorTypeUpstreamServer,
			fmt.Sprintf("unexpected authentication response status %d", status), nil)
	}
}

// statusError maps statuses for all non-login endpoints.
func statusError(status int, body []byte) error {
	msg := upstreamMessage(body)
	switch {
	case status == http.StatusUnauthorized:
		return services.ErrUnauthorized
	case status == http.StatusForbidden:
		return services.ErrForbidden
	case status == http.StatusNotFound:
		if msg == "" {
			msg = "resource not found upstream"
		}
		return services.NewDomainError(services.ErrorTypeNotFound, msg, nil)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		if msg == "" {
			msg = "the upstream server rejected the request"
		}
		return services.NewDomainError(services.ErrorTypeInvalidRequest, msg, nil)
	case status >= 500:
		return services.NewDomainError(services.ErrorTypeUpstreamServer, "upstream server error", nil).
			WithDetail("status", status)
	default:
		return services.NewDomainError(services.ErrorTypeUpstreamServer,
			fmt.Sprintf("unexpected upstream status %d", status), nil)
	}
}

// mapTransportError classifies connection-level failures into the distinct
// connectivity subkinds surfaced to the caller.
func mapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return services.ErrRequestTimedOut
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return services.ErrRequestTimedOut
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return services.ErrHostNotFound
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return services.ErrConnectionRefused
	}
	return services.NewDomainError(services.ErrorTypeConnectivity, "network error contacting the upstream server", err)
}
