package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codavaulta/snippet-vault/internal/auth"
)

func postJSONAs(t *testing.T, h http.HandlerFunc, target, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(auth.WithUserID(req.Context(), userID))
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func createSnippet(t *testing.T, env *testEnv, userID, title string) string {
	t.Helper()
	rr := postJSONAs(t, env.snippetHandler.HandleCreate, "/api/user/create_snippet", userID, map[string]string{
		"title":    title,
		"code":     "print('hello')",
		"language": "python",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
	return created.ID
}

func TestHandleCreateSnippet(t *testing.T) {
	env := newTestEnv(t)
	userID := registerUser(t, env, "author", "author@example.com")

	t.Run("success normalizes the language", func(t *testing.T) {
		rr := postJSONAs(t, env.snippetHandler.HandleCreate, "/api/user/create_snippet", userID, map[string]string{
			"title":    "sharp",
			"code":     "Console.WriteLine();",
			"language": "C#",
		})
		assert.Equal(t, http.StatusCreated, rr.Code)

		var body map[string]any
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.Equal(t, "c", body["language"])
	})

	t.Run("missing title", func(t *testing.T) {
		rr := postJSONAs(t, env.snippetHandler.HandleCreate, "/api/user/create_snippet", userID, map[string]string{
			"code":     "x",
			"language": "go",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Missing title")
	})

	t.Run("unknown language", func(t *testing.T) {
		rr := postJSONAs(t, env.snippetHandler.HandleCreate, "/api/user/create_snippet", userID, map[string]string{
			"title":    "x",
			"code":     "y",
			"language": "klingon",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "unsupported")
	})

	t.Run("invalid language characters", func(t *testing.T) {
		rr := postJSONAs(t, env.snippetHandler.HandleCreate, "/api/user/create_snippet", userID, map[string]string{
			"title":    "x",
			"code":     "y",
			"language": "C++",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "validation_error")
	})
}

func TestHandleListOwnSnippets(t *testing.T) {
	env := newTestEnv(t)
	alice := registerUser(t, env, "alice", "alice@example.com")
	bob := registerUser(t, env, "bob", "bob@example.com")

	createSnippet(t, env, alice, "alice one")
	createSnippet(t, env, alice, "alice two")
	createSnippet(t, env, bob, "bob one")

	req := httptest.NewRequest(http.MethodGet, "/api/user/get_snippets", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), alice))
	rr := httptest.NewRecorder()
	env.snippetHandler.HandleListOwn(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var views []map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&views))
	assert.Len(t, views, 2)
}

func TestHandleUpdateSnippet(t *testing.T) {
	env := newTestEnv(t)
	owner := registerUser(t, env, "owner", "owner@example.com")
	intruder := registerUser(t, env, "intruder", "intruder@example.com")
	snippetID := createSnippet(t, env, owner, "original")

	doUpdate := func(userID string, body map[string]string) *httptest.ResponseRecorder {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPut, "/api/user/update_snippet", bytes.NewReader(raw))
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
		rr := httptest.NewRecorder()
		env.snippetHandler.HandleUpdate(rr, req)
		return rr
	}

	t.Run("owner updates title", func(t *testing.T) {
		rr := doUpdate(owner, map[string]string{"id": snippetID, "title": "renamed"})
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "renamed")
	})

	t.Run("language without code is rejected", func(t *testing.T) {
		rr := doUpdate(owner, map[string]string{"id": snippetID, "language": "go"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("non-owner sees 404", func(t *testing.T) {
		rr := doUpdate(intruder, map[string]string{"id": snippetID, "title": "hijacked"})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("missing id", func(t *testing.T) {
		rr := doUpdate(owner, map[string]string{"title": "nowhere"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Missing id")
	})
}

func TestHandleDeleteSnippet(t *testing.T) {
	env := newTestEnv(t)
	owner := registerUser(t, env, "owner", "owner@example.com")
	intruder := registerUser(t, env, "intruder", "intruder@example.com")
	snippetID := createSnippet(t, env, owner, "doomed")

	doDelete := func(userID, id string) *httptest.ResponseRecorder {
		raw, err := json.Marshal(map[string]string{"id": id})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodDelete, "/api/user/delete_snippet", bytes.NewReader(raw))
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
		rr := httptest.NewRecorder()
		env.snippetHandler.HandleDelete(rr, req)
		return rr
	}

	t.Run("non-owner sees 404 and the snippet survives", func(t *testing.T) {
		rr := doDelete(intruder, snippetID)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("owner deletes", func(t *testing.T) {
		rr := doDelete(owner, snippetID)
		assert.Equal(t, http.StatusOK, rr.Code)

		rr = doDelete(owner, snippetID)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestHandleLanguages(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/languages", nil)
	rr := httptest.NewRecorder()
	env.snippetHandler.HandleLanguages(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Languages []string `json:"languages"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.NotEmpty(t, body.Languages)
	assert.Contains(t, body.Languages, "python")
	assert.Contains(t, body.Languages, "go")
}

func TestHandleStats(t *testing.T) {
	env := newTestEnv(t)
	userID := registerUser(t, env, "author", "author@example.com")
	createSnippet(t, env, userID, "one")

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rr := httptest.NewRecorder()
	env.snippetHandler.HandleStats(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var stats struct {
		Users    int `json:"users"`
		Snippets int `json:"snippets"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&stats))
	assert.Equal(t, 1, stats.Users)
	assert.Equal(t, 1, stats.Snippets)
}
