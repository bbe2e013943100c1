package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/lumosdigital/backoffice/auth"
	"github.com/lumosdigital/backoffice/middleware"
	"github.com/lumosdigital/backoffice/models"
	"github.com/lumosdigital/backoffice/services/account"
	"github.com/lumosdigital/backoffice/services/messages"
	"github.com/lumosdigital/backoffice/services/products"
	"github.com/lumosdigital/backoffice/session"
	"go.uber.org/zap"
)

// fakeUpstream stands in for the upstream API client across every
// service a handler reaches.
type fakeUpstream struct {
	loginBody  []byte
	loginErr   error
	loginCalls int

	products []models.Product
	messages []models.Message
	accounts []models.Account

	sentMessages []models.ContactInput
	deletedIDs   []string
}

func (f *fakeUpstream) Login(_ context.Context, email, _ string) ([]byte, error) {
	f.loginCalls++
	return f.loginBody, f.loginErr
}

func (f *fakeUpstream) ListProducts(_ context.Context, _ string) ([]models.Product, error) {
	return f.products, nil
}

func (f *fakeUpstream) GetProduct(_ context.Context, _, id string) (*models.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeUpstream) CreateProduct(_ context.Context, _ string, input models.ProductInput) (*models.Product, error) {
	return &models.Product{ID: "new", Title: input.Title, Content: input.Content}, nil
}

func (f *fakeUpstream) UpdateProduct(_ context.Context, _, id string, input models.ProductInput) (*models.Product, error) {
	return &models.Product{ID: id, Title: input.Title, Content: input.Content}, nil
}

func (f *fakeUpstream) DeleteProduct(_ context.Context, _, id string) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeUpstream) SendMessage(_ context.Context, input models.ContactInput) error {
	f.sentMessages = append(f.sentMessages, input)
	return nil
}

func (f *fakeUpstream) ListMessages(_ context.Context, _ string) ([]models.Message, error) {
	return f.messages, nil
}

func (f *fakeUpstream) GetConversation(_ context.Context, _, _ string) ([]models.Message, error) {
	return f.messages, nil
}

func (f *fakeUpstream) DeleteMessage(_ context.Context, _, id string) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeUpstream) Signup(_ context.Context, _ models.SignupInput) error { return nil }

func (f *fakeUpstream) UpdateProfile(_ context.Context, _, _ string, _ models.ProfileUpdateInput) error {
	return nil
}

func (f *fakeUpstream) ChangePassword(_ context.Context, _, _ string, _ models.PasswordChangeInput) error {
	return nil
}

func (f *fakeUpstream) DeleteUser(_ context.Context, _, _ string) error { return nil }

func (f *fakeUpstream) ListUsers(_ context.Context, _ string) ([]models.Account, error) {
	return f.accounts, nil
}

func (f *fakeUpstream) GetUserByEmail(_ context.Context, _, email string) (*models.Account, error) {
	for _, a := range f.accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeUpstream) ForgotPassword(_ context.Context, _ models.PasswordResetRequestInput) error {
	return nil
}

func (f *fakeUpstream) ResetPassword(_ context.Context, _ models.PasswordResetInput) error {
	return nil
}

// testDeps satisfies Deps with real services wired to a fakeUpstream.
type testDeps struct {
	logger   *zap.Logger
	authSvc  *auth.Service
	prodSvc  *products.Service
	msgSvc   *messages.Service
	acctSvc  *account.Service
	sessions session.Store
	carrier  *session.Carrier
	authMW   *middleware.AuthMiddleware
	readyErr error
}

func newTestDeps(upstream *fakeUpstream) *testDeps {
	logger := zap.NewNop()
	sessions := session.NewMemoryStore()
	carrier := session.NewCarrier("test-secret", 24*time.Hour)
	return &testDeps{
		logger:   logger,
		authSvc:  auth.NewService(upstream, logger),
		prodSvc:  products.NewService(upstream, logger),
		msgSvc:   messages.NewService(upstream, logger),
		acctSvc:  account.NewService(upstream, logger),
		sessions: sessions,
		carrier:  carrier,
		authMW:   middleware.NewAuthMiddleware(carrier, sessions, logger),
	}
}

func (d *testDeps) Logger() *zap.Logger             { return d.logger }
func (d *testDeps) Auth() *auth.Service             { return d.authSvc }
func (d *testDeps) Products() *products.Service     { return d.prodSvc }
func (d *testDeps) Messages() *messages.Service     { return d.msgSvc }
func (d *testDeps) Accounts() *account.Service      { return d.acctSvc }
func (d *testDeps) Sessions() session.Store         { return d.sessions }
func (d *testDeps) Carrier() *session.Carrier       { return d.carrier }
func (d *testDeps) CookieSecure() bool            { return false }
func (d *testDeps) Ready(_ context.Context) error { return d.readyErr }

func (d *testDeps) Revoke(ctx context.Context, r *http.Request) error {
	return d.authMW.Revoke(ctx, r)
}
