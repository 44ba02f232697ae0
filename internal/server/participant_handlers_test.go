package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"echoroom/internal/models"
)

func TestAddSessionParticipant(t *testing.T) {
	srv, app := newTestServer(t)
	createTestSession(t, srv, "session-1", "Evening circle", "Calm")

	resp, raw := doJSON(t, app, http.MethodPost, "/api/sessions/session-1/participants",
		`{"user_id":"u1","user_name":"alice","mood":"calm"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var participant models.Participant
	require.NoError(t, json.Unmarshal(raw, &participant))
	assert.Equal(t, "u1", participant.UserID)
	assert.Equal(t, "alice", participant.Username)
	assert.Equal(t, defaultAvatar, participant.Avatar)

	roster, err := srv.participantRepo.ListBySession(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}

func TestAddSessionParticipant_Upserts(t *testing.T) {
	srv, app := newTestServer(t)
	createTestSession(t, srv, "session-1", "Evening circle", "Calm")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/sessions/session-1/participants",
		`{"user_id":"u1","user_name":"alice","mood":"calm"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/sessions/session-1/participants",
		`{"user_id":"u1","user_name":"alice","mood":"hopeful"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	roster, err := srv.participantRepo.ListBySession(context.Background(), "session-1")
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "hopeful", roster[0].Mood)
}

func TestAddSessionParticipant_Validation(t *testing.T) {
	srv, app := newTestServer(t)
	createTestSession(t, srv, "session-1", "Evening circle", "Calm")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/sessions/session-1/participants",
		`{"user_name":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/sessions/missing/participants",
		`{"user_id":"u1","user_name":"alice"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRemoveSessionParticipant(t *testing.T) {
	srv, app := newTestServer(t)
	createTestSession(t, srv, "session-1", "Evening circle", "Calm")

	require.NoError(t, srv.participantRepo.Upsert(context.Background(), &models.Participant{
		SessionID: "session-1", UserID: "u1", Username: "alice", Avatar: defaultAvatar,
	}))

	resp, _ := doJSON(t, app, http.MethodDelete, "/api/sessions/session-1/participants/u1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	roster, err := srv.participantRepo.ListBySession(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Empty(t, roster)
}
