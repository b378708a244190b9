// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

package comic

import (
	stdctx "context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangbui/komiko/internal/platform/ctxutil"
	"github.com/hoangbui/komiko/internal/platform/sec"
)

// doJSON runs an authenticated JSON request through the comic router.
func doJSON(t *testing.T, handler *Handler, method, target, body, userID string) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(method, target, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{
		UserID:   userID,
		Username: "inkwell",
		Role:     string(sec.RoleMember),
	}))

	recorder := httptest.NewRecorder()
	handler.Routes().ServeHTTP(recorder, request)
	return recorder
}

// errorCode decodes the error envelope and returns its code field.
func errorCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()

	var envelope struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope.Code
}

/*
TestCreateComic_ContributorRoleMissing verifies a contributor group that
credits names without a role is rejected at the boundary with a 400.
*/
func TestCreateComic_ContributorRoleMissing(t *testing.T) {
	service, repo, _ := newTestService()
	handler := NewHandler(service)

	body := `{
		"title": "Origin",
		"upload_agreement": true,
		"file_id": "k-abc",
		"contributors": [{"role": "", "names": ["Anh"]}]
	}`

	recorder := doJSON(t, handler, http.MethodPost, "/", body, "user-1")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "CONTRIBUTOR_ROLE_MISSING", errorCode(t, recorder))
	assert.Empty(t, repo.comics)
}

/*
TestCreateComic_DuplicateContributorName verifies the same name credited
twice under one role is rejected before reaching the store.
*/
func TestCreateComic_DuplicateContributorName(t *testing.T) {
	service, repo, _ := newTestService()
	handler := NewHandler(service)

	body := `{
		"title": "Origin",
		"upload_agreement": true,
		"file_id": "k-abc",
		"contributors": [{"role": "writer", "names": ["Anh", "Anh"]}]
	}`

	recorder := doJSON(t, handler, http.MethodPost, "/", body, "user-1")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, recorder))
	assert.Empty(t, repo.comics)
}

/*
TestPatchComic_ContributorRoleMissing verifies the patch path enforces
the same contributor rule and leaves the stored set untouched.
*/
func TestPatchComic_ContributorRoleMissing(t *testing.T) {
	service, repo, _ := newTestService()
	handler := NewHandler(service)

	created, err := service.CreateComic(stdctx.Background(), CreateInput{
		Title:           "Origin",
		UploadAgreement: true,
		Upload:          UploadInput{FileID: "k-abc"},
		Contributors:    []ContributorGroup{{Role: "writer", Names: []string{"Anh"}}},
	}, "user-1", nil)
	require.NoError(t, err)

	body := `{"contributors": [{"role": " ", "names": ["Binh"]}]}`
	recorder := doJSON(t, handler, http.MethodPatch, "/"+created.ID, body, "user-1")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "CONTRIBUTOR_ROLE_MISSING", errorCode(t, recorder))
	assert.Equal(t, []ContributorGroup{{Role: "writer", Names: []string{"Anh"}}}, repo.comics[created.ID].Contributors)
}
