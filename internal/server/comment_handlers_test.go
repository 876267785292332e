package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentLifecycle(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	_, alice := ts.signup(t, "alice")
	_, bob := ts.signup(t, "bob")
	categoryID := ts.mustCategory(t, alice, "Go")
	postID := ts.mustPost(t, alice, categoryID, "Thread", 0)

	resp, env := ts.do(t, http.MethodPost, "/comment", map[string]any{
		"post_id": postID,
		"content": "first",
	}, bob)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	assert.Equal(t, "Comment created successfully!", env.Message)
	rootID := payloadID(t, env, "comment")

	resp, env = ts.do(t, http.MethodPost, "/comment", map[string]any{
		"post_id":  fmt.Sprint(postID),
		"reply_id": rootID,
		"content":  "second",
	}, alice)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	reply := env.Payload["comment"].(map[string]any)
	assert.Equal(t, float64(rootID), reply["reply_id"])

	resp, env = ts.do(t, http.MethodGet, fmt.Sprintf("/post/%d/comments", postID), nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Comments retrieved successfully!", env.Message)
	assert.Len(t, env.Payload["comments"], 2)

	path := fmt.Sprintf("/comment/%d", rootID)

	resp, env = ts.do(t, http.MethodPut, path, map[string]any{"content": "hijack"}, alice)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Cannot update Comment: You are unable to modify a comment that you didn't create.", env.Message)

	resp, env = ts.do(t, http.MethodPut, path, map[string]any{"content": "first"}, bob)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Cannot update Comment: No update parameters were provided.", env.Message)

	resp, env = ts.do(t, http.MethodPut, path, map[string]any{"content": "first, edited"}, bob)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Comment updated successfully!", env.Message)

	resp, env = ts.do(t, http.MethodDelete, path, nil, bob)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Comment deleted successfully!", env.Message)

	resp, env = ts.do(t, http.MethodGet, path, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Comment retrieved successfully!", env.Message)
	comment := env.Payload["comment"].(map[string]any)
	assert.NotNil(t, comment["deleted_at"])

	resp, env = ts.do(t, http.MethodGet, "/comment", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, env.Payload["comments"], 2)
}

func TestCreateComment_Validation(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	_, alice := ts.signup(t, "alice")
	categoryID := ts.mustCategory(t, alice, "Go")
	postID := ts.mustPost(t, alice, categoryID, "Thread", 0)

	tests := []struct {
		name    string
		body    map[string]any
		cookie  bool
		status  int
		message string
	}{
		{"invalid post id", map[string]any{"post_id": "x", "content": "hi"}, true, http.StatusBadRequest, "Cannot create Comment: Invalid Post ID."},
		{"invalid reply id", map[string]any{"post_id": postID, "reply_id": "x", "content": "hi"}, true, http.StatusBadRequest, "Cannot create Comment: Invalid Reply ID."},
		{"unknown post", map[string]any{"post_id": 404, "content": "hi"}, true, http.StatusNotFound, "Cannot create Comment: Post does not exist with ID 404."},
		{"missing post id", map[string]any{"content": "hi"}, true, http.StatusNotFound, "Cannot create Comment: Post does not exist with ID 0."},
		{"login checked before post id", map[string]any{"post_id": "x", "content": "hi"}, false, http.StatusUnauthorized, "Cannot create Comment: User not currently logged in"},
		{"missing content", map[string]any{"post_id": postID}, true, http.StatusBadRequest, "Cannot create Comment: Missing content."},
		{"not logged in", map[string]any{"post_id": postID, "content": "hi"}, false, http.StatusUnauthorized, "Cannot create Comment: User not currently logged in"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cookie *http.Cookie
			if tt.cookie {
				cookie = alice
			}
			resp, env := ts.do(t, http.MethodPost, "/comment", tt.body, cookie)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.message, env.Message)
		})
	}
}
