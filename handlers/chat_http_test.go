package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"relaybackend/core"
	"relaybackend/middleware"
	"relaybackend/models"
	"relaybackend/services"
)

// testUserID matches the profile the auth middleware injects in testing mode
const testUserID = "user_test123"

type handlerMocks struct {
	dmLists  *services.MockDMListsService
	messages *services.MockMessagesService
	uploads  *services.MockUploadsService
}

func setupChatRouter(t *testing.T, adminToken string) (*mux.Router, *handlerMocks) {
	t.Helper()
	t.Setenv("TESTING_MODE", "true")

	mocks := &handlerMocks{
		dmLists:  new(services.MockDMListsService),
		messages: new(services.MockMessagesService),
		uploads:  new(services.MockUploadsService),
	}
	profiles := new(services.MockProfilesService)
	authMiddleware := middleware.NewClerkAuthMiddleware(profiles, "sk_test_dummy")

	handler := NewChatHTTPHandler(mocks.dmLists, mocks.messages, mocks.uploads, adminToken)
	router := mux.NewRouter()
	handler.SetupEndpoints(router, authMiddleware)
	return router, mocks
}

func doJSON(router *mux.Router, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleGetDMList(t *testing.T) {
	router, mocks := setupChatRouter(t, "")
	entries := []*models.UserProfile{
		{UserID: "user_other", FullName: "Other User", LastMessageAt: 1000},
		{UserID: models.PrimaryBotID, FullName: "Notes", LastMessageAt: 500},
	}
	mocks.dmLists.On("GetList", mock.Anything, testUserID).Return(entries).Once()

	rec := doJSON(router, http.MethodGet, "/dm-list", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []*models.UserProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "user_other", got[0].UserID)
	mocks.dmLists.AssertExpectations(t)
}

func TestHandleSaveDMList(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, mocks := setupChatRouter(t, "")
		mocks.dmLists.On("SaveList", mock.Anything, testUserID, mock.Anything).Return(nil).Once()

		rec := doJSON(router, http.MethodPost, "/dm-list", SaveDMListRequest{
			DMUsers: []*models.UserProfile{{UserID: "user_other"}},
		})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
		mocks.dmLists.AssertExpectations(t)
	})

	t.Run("StoreFailure_BadGateway", func(t *testing.T) {
		router, mocks := setupChatRouter(t, "")
		mocks.dmLists.On("SaveList", mock.Anything, testUserID, mock.Anything).
			Return(fmt.Errorf("%w: redis down", core.ErrUpstream)).Once()

		rec := doJSON(router, http.MethodPost, "/dm-list", SaveDMListRequest{})

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("MalformedBody_BadRequest", func(t *testing.T) {
		router, _ := setupChatRouter(t, "")
		req := httptest.NewRequest(http.MethodPost, "/dm-list", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleRemoveDMEntry(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, mocks := setupChatRouter(t, "")
		mocks.dmLists.On("RemoveEntry", mock.Anything, testUserID, "user_other").Return(nil).Once()

		rec := doJSON(router, http.MethodDelete, "/dm-list/remove?targetId=user_other", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
		mocks.dmLists.AssertExpectations(t)
	})

	t.Run("MissingTargetID_BadRequest", func(t *testing.T) {
		router, mocks := setupChatRouter(t, "")

		rec := doJSON(router, http.MethodDelete, "/dm-list/remove", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mocks.dmLists.AssertNotCalled(t, "RemoveEntry", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandleListMessages(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, mocks := setupChatRouter(t, "")
		mocks.messages.On("ListSince", mock.Anything, "general", int64(1500)).
			Return([]*models.Message{{ID: "m1", ChannelID: "general", Text: "hi", Timestamp: 2000}}, nil).Once()

		rec := doJSON(router, http.MethodGet, "/messages?channelId=general&since=1500", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var got []*models.Message
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "m1", got[0].ID)
	})

	t.Run("MissingChannelID_BadRequest", func(t *testing.T) {
		router, _ := setupChatRouter(t, "")

		rec := doJSON(router, http.MethodGet, "/messages", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("EmptyResult_ReturnsEmptyArray", func(t *testing.T) {
		router, mocks := setupChatRouter(t, "")
		mocks.messages.On("ListSince", mock.Anything, "general", int64(0)).
			Return([]*models.Message(nil), nil).Once()

		rec := doJSON(router, http.MethodGet, "/messages?channelId=general", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]\n", rec.Body.String())
	})
}

func TestHandleSendMessage(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, mocks := setupChatRouter(t, "")
		sent := &models.Message{ID: "m1", ChannelID: "general", UserID: testUserID, Text: "hi"}
		mocks.messages.On("Send", mock.Anything, "general", testUserID, "hi", "").Return(sent, nil).Once()

		rec := doJSON(router, http.MethodPost, "/messages", SendMessageRequest{ChannelID: "general", Text: "hi"})

		require.Equal(t, http.StatusCreated, rec.Code)
		var got models.Message
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "m1", got.ID)
		mocks.messages.AssertExpectations(t)
	})

	t.Run("AuthorizationError_Forbidden", func(t *testing.T) {
		router, mocks := setupChatRouter(t, "")
		mocks.messages.On("Send", mock.Anything, "dm-user_1-user_2", testUserID, "hi", "").
			Return((*models.Message)(nil), fmt.Errorf("%w: not a participant", core.ErrAuthorization)).Once()

		rec := doJSON(router, http.MethodPost, "/messages",
			SendMessageRequest{ChannelID: "dm-user_1-user_2", Text: "hi"})

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("ValidationError_BadRequest", func(t *testing.T) {
		router, mocks := setupChatRouter(t, "")
		mocks.messages.On("Send", mock.Anything, "general", testUserID, "", "").
			Return((*models.Message)(nil), core.NewValidationError("text")).Once()

		rec := doJSON(router, http.MethodPost, "/messages", SendMessageRequest{ChannelID: "general"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleClearMessages(t *testing.T) {
	t.Run("ValidToken", func(t *testing.T) {
		router, mocks := setupChatRouter(t, "secret-admin-token")
		mocks.messages.On("ClearAll", mock.Anything).Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/messages", nil)
		req.Header.Set("X-Admin-Token", "secret-admin-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
		mocks.messages.AssertExpectations(t)
	})

	t.Run("WrongToken_Forbidden", func(t *testing.T) {
		router, mocks := setupChatRouter(t, "secret-admin-token")

		req := httptest.NewRequest(http.MethodDelete, "/messages", nil)
		req.Header.Set("X-Admin-Token", "wrong")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		mocks.messages.AssertNotCalled(t, "ClearAll", mock.Anything)
	})

	t.Run("NoTokenConfigured_AlwaysForbidden", func(t *testing.T) {
		router, _ := setupChatRouter(t, "")

		req := httptest.NewRequest(http.MethodDelete, "/messages", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestHandleToggleReaction(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, mocks := setupChatRouter(t, "")
		mocks.messages.On("ToggleReaction", mock.Anything, "general", "m1", "👍", testUserID).
			Return(map[string][]string{"👍": {testUserID}}, nil).Once()

		rec := doJSON(router, http.MethodPost, "/messages/reaction",
			ToggleReactionRequest{ChannelID: "general", MessageID: "m1", Emoji: "👍"})

		require.Equal(t, http.StatusOK, rec.Code)
		var got ToggleReactionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, []string{testUserID}, got.Reactions["👍"])
	})

	t.Run("UnknownMessage_NotFound", func(t *testing.T) {
		router, mocks := setupChatRouter(t, "")
		mocks.messages.On("ToggleReaction", mock.Anything, "general", "missing", "👍", testUserID).
			Return(map[string][]string(nil), fmt.Errorf("%w: message missing", core.ErrNotFound)).Once()

		rec := doJSON(router, http.MethodPost, "/messages/reaction",
			ToggleReactionRequest{ChannelID: "general", MessageID: "missing", Emoji: "👍"})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleUpload(t *testing.T) {
	buildMultipart := func(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
		t.Helper()
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
		require.NoError(t, writer.Close())
		return &buf, writer.FormDataContentType()
	}

	t.Run("Success", func(t *testing.T) {
		router, mocks := setupChatRouter(t, "")
		mocks.uploads.On("UploadFile", mock.Anything, testUserID, "a.png", mock.Anything, []byte{1, 2, 3}).
			Return("https://cdn.example.com/user_test123/1-a.png", nil).Once()

		body, contentType := buildMultipart(t, "a.png", []byte{1, 2, 3})
		req := httptest.NewRequest(http.MethodPost, "/uploads", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var got UploadResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "https://cdn.example.com/user_test123/1-a.png", got.URL)
		mocks.uploads.AssertExpectations(t)
	})

	t.Run("MissingFile_BadRequest", func(t *testing.T) {
		router, _ := setupChatRouter(t, "")
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		require.NoError(t, writer.WriteField("other", "value"))
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/uploads", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleHealth(t *testing.T) {
	router, _ := setupChatRouter(t, "")

	rec := doJSON(router, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
