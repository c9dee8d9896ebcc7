package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arogyamitra/healthchat/internal/auth"
	"github.com/arogyamitra/healthchat/internal/domain/job"
	httpapi "github.com/arogyamitra/healthchat/internal/http"
	"github.com/arogyamitra/healthchat/internal/repo/memory"
)

type stubGenerator struct{}

func (stubGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return "Rest and stay hydrated.", nil
}

type stubMLGenerator struct{}

func (stubMLGenerator) Generate(ctx context.Context, input string) (string, error) {
	return "local model answer", nil
}

type memJobs struct {
	created []job.Job
}

func (m *memJobs) Create(ctx context.Context, req job.CreateRequest) (job.Job, error) {
	j := job.New(req)
	m.created = append(m.created, j)
	return j, nil
}

func newTestServer(t *testing.T) (*gin.Engine, *memJobs) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := memory.NewUsersRepo()
	chats := memory.NewChatsRepo()
	jobsRepo := &memJobs{}

	r := httpapi.NewRouter(httpapi.Deps{
		Env:         "test",
		Log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Users:       users,
		Chats:       chats,
		Contacts:    memory.NewContactsRepo(),
		Jobs:        jobsRepo,
		Tokens:      auth.NewManager("integration-secret", time.Hour),
		Generator:   stubGenerator{},
		Translator:  nil,
		MLGenerator: stubMLGenerator{},
	})

	return r, jobsRepo
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer

	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}

	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestRegisterLoginProfileFlow(t *testing.T) {
	r, _ := newTestServer(t)

	rec := do(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username": "ana",
		"email":    "ana@example.com",
		"password": "secret1",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = do(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "ana@example.com",
		"password": "secret1",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}

	token, _ := decode(t, rec)["token"].(string)

	if token == "" {
		t.Fatal("login returned no token")
	}

	// profile starts with just the registration fields
	rec = do(t, r, http.MethodGet, "/auth/profile", token, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("profile status = %d, body %s", rec.Code, rec.Body.String())
	}

	// a valid update is applied
	rec = do(t, r, http.MethodPut, "/auth/profile", token, gin.H{
		"user": gin.H{"age": 30, "gender": "female"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}

	// an out-of-range age rejects the whole update
	rec = do(t, r, http.MethodPut, "/auth/profile", token, gin.H{
		"user": gin.H{"age": 150, "gender": "other"},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid update status = %d, want 400", rec.Code)
	}

	rec = do(t, r, http.MethodGet, "/auth/profile", token, nil)
	u, _ := decode(t, rec)["user"].(map[string]interface{})

	if u["age"] != float64(30) || u["gender"] != "female" {
		t.Errorf("profile changed by a rejected update: %v", u)
	}

	// a tampered token is unauthorized
	rec = do(t, r, http.MethodGet, "/auth/profile", token[:len(token)-8], nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("truncated token status = %d, want 401", rec.Code)
	}
}

func TestChatFlow(t *testing.T) {
	r, _ := newTestServer(t)

	rec := do(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username": "bob",
		"email":    "bob@example.com",
		"password": "secret1",
	})

	token, _ := decode(t, rec)["token"].(string)

	rec = do(t, r, http.MethodPost, "/chat", token, gin.H{
		"messages": []gin.H{{"role": "user", "content": "I have a headache"}},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("chat status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = do(t, r, http.MethodGet, "/chat/history", token, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d, body %s", rec.Code, rec.Body.String())
	}

	var items []map[string]interface{}

	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode history: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("history length = %d, want 1", len(items))
	}

	// chat requires auth
	rec = do(t, r, http.MethodPost, "/chat", "", gin.H{
		"messages": []gin.H{{"role": "user", "content": "hi"}},
	})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated chat status = %d, want 401", rec.Code)
	}
}

func TestTrainingJobEnqueued(t *testing.T) {
	r, jobsRepo := newTestServer(t)

	rec := do(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username": "cara",
		"email":    "cara@example.com",
		"password": "secret1",
	})

	token, _ := decode(t, rec)["token"].(string)

	rec = do(t, r, http.MethodPost, "/ml/train", token, gin.H{})

	if rec.Code != http.StatusAccepted {
		t.Fatalf("train status = %d, body %s", rec.Code, rec.Body.String())
	}

	if len(jobsRepo.created) != 1 || jobsRepo.created[0].Type != "train_model" {
		t.Fatalf("enqueued jobs = %+v", jobsRepo.created)
	}

	body := decode(t, rec)

	if body["jobId"] != jobsRepo.created[0].ID {
		t.Errorf("jobId = %v, want %s", body["jobId"], jobsRepo.created[0].ID)
	}
}

func TestContactFormIsPublic(t *testing.T) {
	r, _ := newTestServer(t)

	rec := do(t, r, http.MethodPost, "/contact/submit", "", gin.H{
		"name":    "Visitor",
		"email":   "visitor@example.com",
		"subject": "Feedback",
		"message": "Great service",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("contact status = %d, body %s", rec.Code, rec.Body.String())
	}

	// but the inbox is not
	rec = do(t, r, http.MethodGet, "/contact/all", "", nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("contact list status = %d, want 401", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	r, _ := newTestServer(t)

	rec := do(t, r, http.MethodGet, "/healthz", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}

	rec = do(t, r, http.MethodGet, "/readyz", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("readyz status = %d", rec.Code)
	}
}
