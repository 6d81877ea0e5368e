package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRESTServer(t *testing.T, handler http.HandlerFunc) *RESTGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRESTGateway(srv.URL+"/", "anon-key", srv.Client(), zap.NewNop())
}

func TestRESTGateway_SignIn(t *testing.T) {
	gw := newRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@x.com", body["email"])

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-1",
			"expires_at":   1900000000,
			"user": map[string]any{
				"id":            "user-1",
				"email":         "ada@x.com",
				"user_metadata": map[string]any{"full_name": "Ada"},
			},
		})
	})

	session, err := gw.SignIn(context.Background(), "ada@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", session.AccessToken)
	assert.Equal(t, "user-1", session.User.ID)
	assert.Equal(t, "Ada", session.User.Metadata.String("full_name"))
	assert.EqualValues(t, 1900000000, session.ExpiresAt.Unix())
}

func TestRESTGateway_AuthErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   string
		msg    string
	}{
		{
			name:   "already registered",
			status: http.StatusUnprocessableEntity,
			body:   `{"code":422,"error_code":"user_already_exists","msg":"User already registered"}`,
			code:   CodeUserAlreadyExists,
			msg:    "User already registered",
		},
		{
			name:   "invalid grant",
			status: http.StatusBadRequest,
			body:   `{"error":"invalid_grant","error_description":"Invalid login credentials"}`,
			code:   CodeInvalidCredentials,
			msg:    "Invalid login credentials",
		},
		{
			name:   "unique violation",
			status: http.StatusConflict,
			body:   `{"code":"23505","message":"duplicate key value violates unique constraint \"organizations_org_code_key\""}`,
			code:   CodeConflict,
			msg:    "duplicate key value",
		},
		{
			name:   "server down",
			status: http.StatusBadGateway,
			body:   ``,
			code:   CodeUnavailable,
			msg:    "Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := gw.SignUp(context.Background(), "ada@x.com", "secret1", nil)
			require.Error(t, err)
			assert.True(t, IsCode(err, tt.code), "got %v", err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestRESTGateway_SignUpResponseShapes(t *testing.T) {
	for name, body := range map[string]string{
		"bare user":    `{"id":"user-1","email":"ada@x.com"}`,
		"with session": `{"access_token":"t","user":{"id":"user-1","email":"ada@x.com"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			gw := newRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
				var req map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, map[string]any{"role": "Owner"}, req["data"])
				w.Write([]byte(body))
			})

			identity, err := gw.SignUp(context.Background(), "ada@x.com", "secret1", Metadata{"role": "Owner"})
			require.NoError(t, err)
			assert.Equal(t, "user-1", identity.ID)
		})
	}
}

func TestRESTGateway_Records(t *testing.T) {
	gw := newRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/organizations", r.URL.Path)

		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`[{"id":"org-1","name":"Acme"}]`))
		case http.MethodGet:
			assert.Equal(t, "eq.ABC", r.URL.Query().Get("org_code"))
			assert.Equal(t, "eq.XYZ", r.URL.Query().Get("passkey"))
			assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
			w.Write([]byte(`[{"id":"org-1","name":"Acme"}]`))
		case http.MethodHead:
			assert.Equal(t, "count=exact", r.Header.Get("Prefer"))
			w.Header().Set("Content-Range", "0-0/7")
		case http.MethodDelete:
			assert.Equal(t, "eq.org-1", r.URL.Query().Get("id"))
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ctx := context.Background()

	row, err := gw.Insert(ctx, "tok-1", "organizations", Record{"name": "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "org-1", row.String("id"))

	rows, err := gw.Query(ctx, "", "organizations", []Filter{Eq("org_code", "ABC"), Eq("passkey", "XYZ")})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	count, err := gw.Count(ctx, "", "organizations", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 7, count)

	require.NoError(t, gw.Delete(ctx, "", "organizations", []Filter{Eq("id", "org-1")}))
	assert.True(t, IsCode(gw.Delete(ctx, "", "organizations", nil), CodeBadRequest))
}

func TestRESTGateway_MissingConfig(t *testing.T) {
	gw := NewRESTGateway("", "", nil, zap.NewNop())

	_, err := gw.SignIn(context.Background(), "ada@x.com", "secret1")
	assert.True(t, IsCode(err, CodeUnavailable))
}

func TestParseContentRange(t *testing.T) {
	n, err := parseContentRange("*/0")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = parseContentRange("0-24/57")
	require.NoError(t, err)
	assert.EqualValues(t, 57, n)

	_, err = parseContentRange("")
	assert.Error(t, err)
}
