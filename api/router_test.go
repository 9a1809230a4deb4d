package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/jobtrail/jobtrail/api"
	dbfs "github.com/jobtrail/jobtrail/db"
	"github.com/jobtrail/jobtrail/internal/config"
	"github.com/jobtrail/jobtrail/internal/engine"
	"github.com/jobtrail/jobtrail/internal/repository/docstore"
	"github.com/jobtrail/jobtrail/internal/store"
	"github.com/jobtrail/jobtrail/internal/validate"
	"github.com/jobtrail/jobtrail/pkg/models"
)

const testSecret = "router-test-secret"

// newTestRouter wires the full HTTP surface over an in-memory store.
func newTestRouter(t *testing.T) (*mux.Router, *docstore.DocRepo) {
	t.Helper()
	cfg := &config.Config{
		Addr:          ":0",
		JWTSecret:     testSecret,
		APITimeout:    5 * time.Second,
		TokenDuration: time.Hour,
	}
	validator, err := validate.NewFromFS(dbfs.RequestSchemas)
	if err != nil {
		t.Fatalf("load schemas: %v", err)
	}
	repo := docstore.New(store.NewMemory(), nil)
	eng := engine.New(repo, repo, repo, nil, nil)
	return api.SetupRoutes(cfg, "test", "test", repo, validator, eng), repo
}

func tokenFor(t *testing.T, userID string, role models.Role) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

// doJSON performs one request against the router and decodes the body
// into out when it is non-nil.
func doJSON(t *testing.T, r *mux.Router, method, path, token string, body, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	res := w.Result()
	defer res.Body.Close()
	data, _ := io.ReadAll(res.Body)
	if out != nil && res.StatusCode < 300 {
		if err := json.Unmarshal(data, out); err != nil {
			t.Fatalf("%s %s: decode response %q: %v", method, path, data, err)
		}
	}
	return res.StatusCode
}

func seedUser(t *testing.T, repo *docstore.DocRepo, id string, role models.Role) {
	t.Helper()
	now := time.Now().UTC()
	u := models.User{
		ID: id, Name: id, Email: id + "@example.com", Role: role,
		CreatedAt: now, UpdatedAt: now,
	}
	if err := repo.PutUser(context.Background(), &u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}
