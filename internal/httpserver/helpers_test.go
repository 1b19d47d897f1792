package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/artique/internal/repo"
	"github.com/Skotchmaster/artique/internal/service"
	"github.com/Skotchmaster/artique/pkg/db"
	"github.com/Skotchmaster/artique/pkg/hash"
	authmw "github.com/Skotchmaster/artique/pkg/middleware/auth"
	"github.com/Skotchmaster/artique/pkg/tokens"
)

type testServer struct {
	e      *echo.Echo
	repo   *repo.GormRepo
	tokens *tokens.Issuer
}

func newTestServer(t *testing.T, tweak ...func(d *Deps)) *testServer {
	t.Helper()

	ctx := context.Background()
	gdb, err := db.Open(ctx, "sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	require.NoError(t, repo.Migrate(ctx, gdb))

	r := repo.New(gdb)
	iss := tokens.NewIssuer([]byte("http-test-secret"), time.Hour)

	deps := &Deps{
		AuthHandler: &AuthHTTP{Svc: &service.AuthService{
			Repo:   r,
			Hasher: hash.NewHasher(bcrypt.MinCost),
			Tokens: iss,
		}},
		ItemsHandler: &ItemsHTTP{Svc: &service.ItemService{Repo: r}},
		Auth:         authmw.New(iss),
		Ready:        r.Ping,
	}
	for _, fn := range tweak {
		fn(deps)
	}

	e := echo.New()
	Register(e, deps)
	return &testServer{e: e, repo: r, tokens: iss}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type userJSON struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type itemJSON struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ArtistID    uint    `json:"artist_id"`
}

type authResponse struct {
	Message string   `json:"message"`
	User    userJSON `json:"user"`
	Token   string   `json:"token"`
}

type itemResponse struct {
	Message string   `json:"message"`
	Item    itemJSON `json:"item"`
}

func (s *testServer) register(t *testing.T, username, email, role string) authResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "pw123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[authResponse](t, rec)
}

func (s *testServer) createItem(t *testing.T, token string, name string, price float64) itemJSON {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/items", token, map[string]any{
		"name":        name,
		"description": "Blue ceramic",
		"price":       price,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[itemResponse](t, rec).Item
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(v))
	return &buf
}
