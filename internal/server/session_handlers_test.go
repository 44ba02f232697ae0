package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"echoroom/internal/models"
)

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestCreateSession(t *testing.T) {
	_, app := newTestServer(t)

	resp, raw := doJSON(t, app, http.MethodPost, "/api/sessions", `{"name":"Evening circle","category":"Hopeful"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var session models.Session
	require.NoError(t, json.Unmarshal(raw, &session))
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "Evening circle", session.Name)
	assert.Equal(t, "Hopeful", session.Category)
}

func TestCreateSession_Validation(t *testing.T) {
	_, app := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"category":"Hopeful"}`},
		{"missing category", `{"name":"Evening circle"}`},
		{"blank name", `{"name":"   ","category":"Hopeful"}`},
		{"malformed body", `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, app, http.MethodPost, "/api/sessions", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestGetSession(t *testing.T) {
	srv, app := newTestServer(t)
	createTestSession(t, srv, "session-1", "Evening circle", "Calm")

	resp, raw := doJSON(t, app, http.MethodGet, "/api/sessions/session-1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var session models.Session
	require.NoError(t, json.Unmarshal(raw, &session))
	assert.Equal(t, "session-1", session.ID)
	assert.Equal(t, "Calm", session.Category)
}

func TestGetSession_NotFound(t *testing.T) {
	_, app := newTestServer(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/sessions/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetSessions_NewestFirst(t *testing.T) {
	srv, app := newTestServer(t)
	createTestSession(t, srv, "session-1", "First", "Calm")
	createTestSession(t, srv, "session-2", "Second", "Books")

	resp, raw := doJSON(t, app, http.MethodGet, "/api/sessions/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Sessions []models.Session `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Len(t, body.Sessions, 2)
}

func TestGetSessionMessages(t *testing.T) {
	srv, app := newTestServer(t)
	createTestSession(t, srv, "session-1", "Evening circle", "Calm")

	ctx := context.Background()
	require.NoError(t, srv.messageRepo.Create(ctx, &models.Message{
		SessionID: "session-1", UserID: "u1", Sender: "alice", Text: "hello",
	}))
	require.NoError(t, srv.messageRepo.Create(ctx, &models.Message{
		SessionID: "session-1", UserID: "u2", Sender: "bob", Text: "hi alice",
	}))

	resp, raw := doJSON(t, app, http.MethodGet, "/api/sessions/session-1/messages", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Messages []models.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Len(t, body.Messages, 2)
	assert.Equal(t, "hello", body.Messages[0].Text)
	assert.Equal(t, "hi alice", body.Messages[1].Text)
}

func TestGetSessionMessages_UnknownSession(t *testing.T) {
	_, app := newTestServer(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/sessions/missing/messages", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetSessionParticipants(t *testing.T) {
	srv, app := newTestServer(t)
	createTestSession(t, srv, "session-1", "Evening circle", "Calm")

	require.NoError(t, srv.participantRepo.Upsert(context.Background(), &models.Participant{
		SessionID: "session-1", UserID: "u1", Username: "alice", Avatar: defaultAvatar, Mood: "calm",
	}))

	resp, raw := doJSON(t, app, http.MethodGet, "/api/sessions/session-1/participants", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Participants []models.Participant `json:"participants"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Len(t, body.Participants, 1)
	assert.Equal(t, "alice", body.Participants[0].Username)
	assert.Equal(t, defaultAvatar, body.Participants[0].Avatar)
}

func TestLivenessCheck(t *testing.T) {
	srv, app := newTestServer(t)
	_ = srv

	resp, _ := doJSON(t, app, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
