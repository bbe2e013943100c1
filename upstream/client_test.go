package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lumosdigital/backoffice/models"
	"github.com/lumosdigital/backoffice/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(Config{BaseURL: server.URL, Timeout: 5 * time.Second}, zap.NewNop())
	return client, server
}

func TestLoginPostsCredentials(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]string

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"token":"t","user":{"id":"1","email":"a@b.com"}}`))
	}))

	body, err := client.Login(context.Background(), "a@b.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/account/login", gotPath)
	assert.Equal(t, "a@b.com", gotBody["email"])
	assert.Equal(t, "hunter2", gotBody["password"])
	assert.JSONEq(t, `{"token":"t","user":{"id":"1","email":"a@b.com"}}`, string(body))
}

func TestLoginStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "401 means wrong credentials",
			status: http.StatusUnauthorized,
			body:   `{"message":"nope"}`,
			check: func(t *testing.T, err error) {
				assert.True(t, services.IsInvalidCredentialsError(err))
			},
		},
		{
			name:   "403 is forbidden",
			status: http.StatusForbidden,
			check: func(t *testing.T, err error) {
				assert.True(t, services.IsForbiddenError(err))
			},
		},
		{
			name:   "400 carries the upstream message",
			status: http.StatusBadRequest,
			body:   `{"message":"email is required"}`,
			check: func(t *testing.T, err error) {
				assert.True(t, services.IsInvalidRequestError(err))
				assert.Contains(t, err.Error(), "email is required")
			},
		},
		{
			name:   "500 is an upstream server error",
			status: http.StatusInternalServerError,
			check: func(t *testing.T, err error) {
				assert.True(t, services.IsUpstreamServerError(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))

			body, err := client.Login(context.Background(), "a@b.com", "pw")
			require.Error(t, err)
			assert.Nil(t, body, "no partial body on error")
			tt.check(t, err)
		})
	}
}

func TestBearerTokenForwarding(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))

	_, err := client.ListProducts(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", gotAuth)
}

func TestPublicEndpointsOmitAuthorization(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusCreated)
	}))

	err := client.SendMessage(context.Background(), models.ContactInput{
		Name:    "Visitor",
		Email:   "v@example.com",
		Message: "hello",
	})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestListProductsUnwrapsEnvelope(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		w.Write([]byte(`{"success":true,"data":[{"_id":"p1","title":"Widget","content":"A widget"}]}`))
	}))

	products, err := client.ListProducts(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "Widget", products[0].Title)
}

func TestListProductsBareArray(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"p2","title":"Gadget"}]`))
	}))

	products, err := client.ListProducts(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p2", products[0].ID)
}

func TestStatusErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "401 on a non-login endpoint is unauthorized",
			status: http.StatusUnauthorized,
			check:  func(t *testing.T, err error) { assert.True(t, services.IsUnauthorizedError(err)) },
		},
		{
			name:   "404 is not found",
			status: http.StatusNotFound,
			body:   `{"message":"no such product"}`,
			check: func(t *testing.T, err error) {
				assert.True(t, services.IsNotFoundError(err))
				assert.Contains(t, err.Error(), "no such product")
			},
		},
		{
			name:   "503 is an upstream server error",
			status: http.StatusServiceUnavailable,
			check:  func(t *testing.T, err error) { assert.True(t, services.IsUpstreamServerError(err)) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))

			_, err := client.GetProduct(context.Background(), "tok", "p1")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	client := NewClient(Config{BaseURL: addr, Timeout: 2 * time.Second}, zap.NewNop())
	_, err := client.Login(context.Background(), "a@b.com", "pw")
	require.Error(t, err)
	assert.True(t, services.IsConnectivityError(err))
	assert.Equal(t, "refused", services.ConnectivityKind(err))
}

func TestRequestTimeout(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	client.httpClient.Timeout = 100 * time.Millisecond

	_, err := client.Login(context.Background(), "a@b.com", "pw")
	require.Error(t, err)
	assert.True(t, services.IsConnectivityError(err))
	assert.Equal(t, "timed_out", services.ConnectivityKind(err))
}

func TestDeleteProductPath(t *testing.T) {
	var gotMethod, gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, client.DeleteProduct(context.Background(), "tok", "p9"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/products/p9", gotPath)
}

func TestDeleteMessagePath(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, client.DeleteMessage(context.Background(), "tok", "m3"))
	assert.Equal(t, "/message/m3/delete", gotPath)
}

func TestGetUserByEmailEscapesPath(t *testing.T) {
	var gotEscaped string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEscaped = r.URL.EscapedPath()
		w.Write([]byte(`{"_id":"u1","email":"a@b.com","username":"ann"}`))
	}))

	account, err := client.GetUserByEmail(context.Background(), "tok", "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "/users/a@b.com", gotEscaped)
	assert.Equal(t, "ann", account.Username)
}
