package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allease/allease-core/internal/config"
	"github.com/allease/allease-core/internal/content"
	"github.com/allease/allease-core/internal/query"
	"github.com/allease/allease-core/internal/security"
	"github.com/allease/allease-core/internal/session"
	"github.com/allease/allease-core/internal/storage"
	"github.com/allease/allease-core/internal/vault"
)

type fakeContentService struct{}

func (fakeContentService) SupportiveContent(context.Context, string) (content.SupportResult, error) {
	return content.SupportResult{Text: "Breathe slowly."}, nil
}

func (fakeContentService) TopicStructure(context.Context, string) (content.TopicStructure, error) {
	return content.TopicStructure{Topic: "Sleep", Summary: "Rest cycles."}, nil
}

func (fakeContentService) SubtopicExplanation(context.Context, string, string) (string, error) {
	return "REM is the dream phase.", nil
}

func (fakeContentService) GenerateQuiz(context.Context, string) ([]content.QuizQuestion, error) {
	return []content.QuizQuestion{{Question: "Q1", Options: []string{"a", "b"}, CorrectIndex: 0, Explanation: "a"}}, nil
}

func (fakeContentService) ActivityGuide(context.Context, string) (content.ActivityGuide, error) {
	return content.ActivityGuide{Overview: "Plan."}, nil
}

func (fakeContentService) Speak(context.Context, string) ([]byte, error) {
	return content.WAVFromPCM16([]byte{0, 0}, 24000, 1), nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	v := vault.New(storage.NewMemoryStore(), security.SHA256Hasher{})
	sessions := session.NewStore()
	shim := query.NewShim(v)
	jwtCfg := config.JWTConfig{Secret: "test-secret", Expiry: time.Hour}

	r := gin.New()
	RegisterRoutes(r, nil, v, sessions, shim, fakeContentService{}, jwtCfg)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if errEncode := json.NewEncoder(&buf).Encode(body); errEncode != nil {
			t.Fatalf("encode body: %v", errEncode)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, val := range headers {
		req.Header.Set(k, val)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if errDecode := json.Unmarshal(w.Body.Bytes(), &out); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}
	return out
}

func registerAndLogin(t *testing.T, r *gin.Engine, email, password, partition string) string {
	t.Helper()

	creds := map[string]string{"email": email, "password": password}
	headers := map[string]string{PartitionHeader: partition}

	if w := doJSON(t, r, http.MethodPost, "/v0/auth/register", creds, headers); w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w := doJSON(t, r, http.MethodPost, "/v0/auth/login", creds, headers)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	token, _ := decodeBody(t, w)["token"].(string)
	if token == "" {
		t.Fatal("login: expected a token")
	}
	return token
}

func TestRegisterDuplicate(t *testing.T) {
	r := newTestRouter(t)
	creds := map[string]string{"email": "a@b.com", "password": "pw"}

	if w := doJSON(t, r, http.MethodPost, "/v0/auth/register", creds, nil); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	w := doJSON(t, r, http.MethodPost, "/v0/auth/register", creds, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if got := decodeBody(t, w)["error"]; got != "Entity ID collision: User already exists." {
		t.Fatalf("unexpected error message: %v", got)
	}
}

func TestLoginFailureMessage(t *testing.T) {
	r := newTestRouter(t)
	doJSON(t, r, http.MethodPost, "/v0/auth/register", map[string]string{"email": "a@b.com", "password": "pw"}, nil)

	wrongPassword := doJSON(t, r, http.MethodPost, "/v0/auth/login", map[string]string{"email": "a@b.com", "password": "nope"}, nil)
	unknownEmail := doJSON(t, r, http.MethodPost, "/v0/auth/login", map[string]string{"email": "x@y.com", "password": "pw"}, nil)

	if wrongPassword.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPassword.Code, unknownEmail.Code)
	}
	msg1 := decodeBody(t, wrongPassword)["error"]
	msg2 := decodeBody(t, unknownEmail)["error"]
	if msg1 != "Invalid profile signature." || msg1 != msg2 {
		t.Fatalf("expected identical failure messages, got %v and %v", msg1, msg2)
	}
}

func TestLoginReturnsBaselineState(t *testing.T) {
	r := newTestRouter(t)
	doJSON(t, r, http.MethodPost, "/v0/auth/register", map[string]string{"email": "a@b.com", "password": "pw"}, nil)

	w := doJSON(t, r, http.MethodPost, "/v0/auth/login", map[string]string{"email": "a@b.com", "password": "pw"}, nil)
	body := decodeBody(t, w)
	user, _ := body["user"].(map[string]any)
	state, _ := user["state"].(map[string]any)
	if score, _ := state["impactScore"].(float64); score != 15.00 {
		t.Fatalf("expected baseline score 15.00, got %v", state["impactScore"])
	}
}

func TestSessionPerPartition(t *testing.T) {
	r := newTestRouter(t)
	registerAndLogin(t, r, "a@b.com", "pw", "tab-1")

	boundTab := doJSON(t, r, http.MethodGet, "/v0/session", nil, map[string]string{PartitionHeader: "tab-1"})
	if got := decodeBody(t, boundTab)["email"]; got != "a@b.com" {
		t.Fatalf("expected bound email, got %v", got)
	}

	otherTab := doJSON(t, r, http.MethodGet, "/v0/session", nil, map[string]string{PartitionHeader: "tab-2"})
	if got := decodeBody(t, otherTab)["email"]; got != nil {
		t.Fatalf("expected null email on unbound partition, got %v", got)
	}
}

func TestStateRequiresAuth(t *testing.T) {
	r := newTestRouter(t)

	if w := doJSON(t, r, http.MethodGet, "/v0/state", nil, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
	headers := map[string]string{"Authorization": "Bearer not-a-token"}
	if w := doJSON(t, r, http.MethodGet, "/v0/state", nil, headers); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", w.Code)
	}
}

func TestStateMutations(t *testing.T) {
	r := newTestRouter(t)
	token := registerAndLogin(t, r, "a@b.com", "pw", "tab-1")
	headers := map[string]string{"Authorization": "Bearer " + token}

	w := doJSON(t, r, http.MethodPost, "/v0/state/breath", nil, headers)
	if w.Code != http.StatusOK {
		t.Fatalf("breath: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	state, _ := decodeBody(t, w)["state"].(map[string]any)
	if score, _ := state["impactScore"].(float64); score != 17.00 {
		t.Fatalf("expected 17.00 after breath, got %v", state["impactScore"])
	}

	w = doJSON(t, r, http.MethodPost, "/v0/state/moods", map[string]string{"mood": "Calm"}, headers)
	state, _ = decodeBody(t, w)["state"].(map[string]any)
	if score, _ := state["impactScore"].(float64); score != 18.00 {
		t.Fatalf("expected 18.00 after mood, got %v", state["impactScore"])
	}
	moods, _ := state["moodHistory"].([]any)
	if len(moods) != 1 {
		t.Fatalf("expected 1 mood entry, got %d", len(moods))
	}

	w = doJSON(t, r, http.MethodPost, "/v0/state/eco", map[string]string{"action": "cycled to work"}, headers)
	state, _ = decodeBody(t, w)["state"].(map[string]any)
	if score, _ := state["impactScore"].(float64); score != 21.00 {
		t.Fatalf("expected 21.00 after eco action, got %v", state["impactScore"])
	}
}

func TestRepeatTopicStillScores(t *testing.T) {
	r := newTestRouter(t)
	token := registerAndLogin(t, r, "a@b.com", "pw", "tab-1")
	headers := map[string]string{"Authorization": "Bearer " + token}
	topic := map[string]any{"topic": "Sleep", "summary": "Rest cycles."}

	doJSON(t, r, http.MethodPost, "/v0/state/topics", topic, headers)
	w := doJSON(t, r, http.MethodPost, "/v0/state/topics", topic, headers)

	state, _ := decodeBody(t, w)["state"].(map[string]any)
	topics, _ := state["exploredTopics"].([]any)
	if len(topics) != 1 {
		t.Fatalf("expected repeated topic to dedup, got %d entries", len(topics))
	}
	if score, _ := state["impactScore"].(float64); score != 17.00 {
		t.Fatalf("expected both explorations to score, got %v", state["impactScore"])
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	r := newTestRouter(t)
	token := registerAndLogin(t, r, "a@b.com", "pw", "tab-1")
	headers := map[string]string{"Authorization": "Bearer " + token}

	if w := doJSON(t, r, http.MethodGet, "/v0/state", nil, headers); w.Code != http.StatusOK {
		t.Fatalf("expected 200 before logout, got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/v0/auth/logout", nil, headers); w.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/v0/state", nil, headers); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", w.Code)
	}
}

func TestQueryAnonymousRoster(t *testing.T) {
	r := newTestRouter(t)
	doJSON(t, r, http.MethodPost, "/v0/auth/register", map[string]string{"email": "a@b.com", "password": "pw"}, nil)

	w := doJSON(t, r, http.MethodPost, "/v0/query", map[string]string{"command": "SELECT * FROM users"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	rows, _ := decodeBody(t, w)["rows"].([]any)
	if len(rows) != 1 {
		t.Fatalf("expected 1 roster row, got %d", len(rows))
	}
	row, _ := rows[0].(map[string]any)
	if row["status"] != "ENCRYPTED" {
		t.Fatalf("expected ENCRYPTED status, got %v", row["status"])
	}
}

func TestQueryRejectionIsData(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/v0/query", map[string]string{"command": "DROP TABLE users"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for rejection, got %d", w.Code)
	}
	if got := decodeBody(t, w)["error"]; got != "Access Denied: SQL command outside allowed neural scope." {
		t.Fatalf("unexpected rejection message: %v", got)
	}
}

func TestContentRoutes(t *testing.T) {
	r := newTestRouter(t)
	token := registerAndLogin(t, r, "a@b.com", "pw", "tab-1")
	headers := map[string]string{"Authorization": "Bearer " + token}

	w := doJSON(t, r, http.MethodPost, "/v0/content/support", map[string]string{"mood": "Sad"}, headers)
	if w.Code != http.StatusOK {
		t.Fatalf("support: expected 200, got %d", w.Code)
	}
	if got := decodeBody(t, w)["text"]; got != "Breathe slowly." {
		t.Fatalf("unexpected support text: %v", got)
	}

	w = doJSON(t, r, http.MethodPost, "/v0/content/speak", map[string]string{"text": "saved"}, headers)
	if w.Code != http.StatusOK {
		t.Fatalf("speak: expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "audio/wav" {
		t.Fatalf("expected audio/wav, got %q", ct)
	}
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/healthz", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
