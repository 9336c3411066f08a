package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAndUpdateOwnProfile(t *testing.T) {
	te := setupEnv(t)
	user, token := te.seedUser(t, "alice")

	code, body := te.do(t, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, user.ID, body["id"])
	assert.Nil(t, body["password_hash"])

	code, body = te.do(t, http.MethodPut, "/users/me", token, map[string]any{
		"bio":       "coffee and climbing",
		"job":       "engineer",
		"interests": []string{"Climbing", "Coffee"},
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "coffee and climbing", body["bio"])
	assert.Equal(t, "engineer", body["job"])
	// untouched fields survive the merge
	assert.Equal(t, user.Name, body["name"])
	assert.ElementsMatch(t, []any{"climbing", "coffee"}, body["interests"])

	// an update without interests leaves them alone
	code, body = te.do(t, http.MethodPut, "/users/me", token, map[string]any{"bio": "new bio"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "new bio", body["bio"])
	assert.Len(t, body["interests"], 2)
}

func TestGetNearbyUsersEndpoint(t *testing.T) {
	te := setupEnv(t)
	_, token := te.seedUser(t, "alice") // seeded in Berlin
	te.seedUser(t, "bob")               // also Berlin
	te.seedUser(t, "carol")

	code, _ := te.do(t, http.MethodGet, "/users/nearby", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, users := te.doList(t, http.MethodGet, "/users/nearby?location=berlin", token)
	require.Equal(t, http.StatusOK, code)
	// the caller is excluded from their own results
	assert.Len(t, users, 2)

	code, users = te.doList(t, http.MethodGet, "/users/nearby?location=berlin&limit=1", token)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, users, 1)

	code, _ = te.doList(t, http.MethodGet, "/users/nearby?location=berlin&limit=abc", token)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestListingAllUsersNeedsAdmin(t *testing.T) {
	te := setupEnv(t)
	_, token := te.seedUser(t, "alice")
	admin, adminToken := te.seedUser(t, "root")
	require.NoError(t, te.db.Model(admin).Update("is_admin", true).Error)

	code, body := te.do(t, http.MethodGet, "/users", token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Forbidden - Admin access required", body["error"])

	code, users := te.doList(t, http.MethodGet, "/users", adminToken)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, users, 2)
}

func TestDeleteUserNeedsAdmin(t *testing.T) {
	te := setupEnv(t)
	alice, aliceToken := te.seedUser(t, "alice")
	admin, adminToken := te.seedUser(t, "root")
	require.NoError(t, te.db.Model(admin).Update("is_admin", true).Error)

	code, _ := te.do(t, http.MethodDelete, "/users/"+admin.ID, aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body := te.do(t, http.MethodDelete, "/users/"+alice.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])

	code, _ = te.do(t, http.MethodGet, "/users/"+alice.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = te.do(t, http.MethodDelete, "/users/"+alice.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestGetUserByID(t *testing.T) {
	te := setupEnv(t)
	_, token := te.seedUser(t, "alice")
	bob, _ := te.seedUser(t, "bob")

	code, body := te.do(t, http.MethodGet, "/users/"+bob.ID, token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, bob.ID, body["id"])

	code, body = te.do(t, http.MethodGet, "/users/does-not-exist", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "User not found", body["error"])
}
