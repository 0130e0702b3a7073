package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"relaybackend/appctx"
	"relaybackend/core"
	"relaybackend/middleware"
	"relaybackend/models"
	"relaybackend/services"
)

const maxUploadBytes = 10 * 1024 * 1024

type ChatHTTPHandler struct {
	dmListsService  services.DMListsService
	messagesService services.MessagesService
	uploadsService  services.UploadsService
	adminToken      string
}

func NewChatHTTPHandler(
	dmListsService services.DMListsService,
	messagesService services.MessagesService,
	uploadsService services.UploadsService,
	adminToken string,
) *ChatHTTPHandler {
	return &ChatHTTPHandler{
		dmListsService:  dmListsService,
		messagesService: messagesService,
		uploadsService:  uploadsService,
		adminToken:      adminToken,
	}
}

type SaveDMListRequest struct {
	DMUsers []*models.UserProfile `json:"dmUsers"`
}

type SendMessageRequest struct {
	ChannelID string `json:"channelId"`
	Text      string `json:"text"`
	ReplyToID string `json:"replyToId,omitempty"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ToggleReactionRequest struct {
	ChannelID string `json:"channelId"`
	MessageID string `json:"messageId"`
	Emoji     string `json:"emoji"`
}

type ToggleReactionResponse struct {
	Reactions map[string][]string `json:"reactions"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

func (h *ChatHTTPHandler) HandleGetDMList(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Get DM list request received from %s", r.RemoteAddr)

	profile, ok := appctx.GetProfile(r.Context())
	if !ok {
		log.Printf("❌ Profile not found in context")
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	entries := h.dmListsService.GetList(r.Context(), profile.UserID)
	h.writeJSONResponse(w, http.StatusOK, entries)
}

func (h *ChatHTTPHandler) HandleSaveDMList(w http.ResponseWriter, r *http.Request) {
	log.Printf("💾 Save DM list request received from %s", r.RemoteAddr)

	profile, ok := appctx.GetProfile(r.Context())
	if !ok {
		log.Printf("❌ Profile not found in context")
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req SaveDMListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.dmListsService.SaveList(r.Context(), profile.UserID, req.DMUsers); err != nil {
		log.Printf("❌ Failed to save DM list: %v", err)
		h.writeServiceError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, SuccessResponse{Success: true})
}

func (h *ChatHTTPHandler) HandleRemoveDMEntry(w http.ResponseWriter, r *http.Request) {
	log.Printf("🗑️ Remove DM entry request received from %s", r.RemoteAddr)

	profile, ok := appctx.GetProfile(r.Context())
	if !ok {
		log.Printf("❌ Profile not found in context")
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	targetID := r.URL.Query().Get("targetId")
	if targetID == "" {
		log.Printf("❌ Missing targetId query parameter")
		http.Error(w, "targetId is required", http.StatusBadRequest)
		return
	}

	if err := h.dmListsService.RemoveEntry(r.Context(), profile.UserID, targetID); err != nil {
		log.Printf("❌ Failed to remove DM entry: %v", err)
		h.writeServiceError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, SuccessResponse{Success: true})
}

func (h *ChatHTTPHandler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List messages request received from %s", r.RemoteAddr)

	channelID := r.URL.Query().Get("channelId")
	if channelID == "" {
		log.Printf("❌ Missing channelId query parameter")
		http.Error(w, "channelId is required", http.StatusBadRequest)
		return
	}

	var since int64
	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		parsed, err := strconv.ParseInt(sinceStr, 10, 64)
		if err != nil {
			log.Printf("❌ Invalid since query parameter: %v", err)
			http.Error(w, "since must be an integer timestamp", http.StatusBadRequest)
			return
		}
		since = parsed
	}

	messages, err := h.messagesService.ListSince(r.Context(), channelID, since)
	if err != nil {
		log.Printf("❌ Failed to list messages: %v", err)
		h.writeServiceError(w, err)
		return
	}
	if messages == nil {
		messages = []*models.Message{}
	}

	h.writeJSONResponse(w, http.StatusOK, messages)
}

func (h *ChatHTTPHandler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	log.Printf("✉️ Send message request received from %s", r.RemoteAddr)

	profile, ok := appctx.GetProfile(r.Context())
	if !ok {
		log.Printf("❌ Profile not found in context")
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.messagesService.Send(r.Context(), req.ChannelID, profile.UserID, req.Text, req.ReplyToID)
	if err != nil {
		log.Printf("❌ Failed to send message: %v", err)
		h.writeServiceError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, msg)
}

func (h *ChatHTTPHandler) HandleClearMessages(w http.ResponseWriter, r *http.Request) {
	log.Printf("🗑️ Clear messages request received from %s", r.RemoteAddr)

	if h.adminToken == "" || r.Header.Get("X-Admin-Token") != h.adminToken {
		log.Printf("❌ Invalid or missing admin token")
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if err := h.messagesService.ClearAll(r.Context()); err != nil {
		log.Printf("❌ Failed to clear messages: %v", err)
		h.writeServiceError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, SuccessResponse{Success: true})
}

func (h *ChatHTTPHandler) HandleToggleReaction(w http.ResponseWriter, r *http.Request) {
	log.Printf("😀 Toggle reaction request received from %s", r.RemoteAddr)

	profile, ok := appctx.GetProfile(r.Context())
	if !ok {
		log.Printf("❌ Profile not found in context")
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req ToggleReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	reactions, err := h.messagesService.ToggleReaction(
		r.Context(), req.ChannelID, req.MessageID, req.Emoji, profile.UserID)
	if err != nil {
		log.Printf("❌ Failed to toggle reaction: %v", err)
		h.writeServiceError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, ToggleReactionResponse{Reactions: reactions})
}

func (h *ChatHTTPHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	log.Printf("📤 Upload request received from %s", r.RemoteAddr)

	profile, ok := appctx.GetProfile(r.Context())
	if !ok {
		log.Printf("❌ Profile not found in context")
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Printf("❌ Failed to parse multipart form: %v", err)
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Printf("❌ Missing file in upload request: %v", err)
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("❌ Failed to read uploaded file: %v", err)
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return
	}

	url, err := h.uploadsService.UploadFile(
		r.Context(), profile.UserID, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		log.Printf("❌ Failed to upload file: %v", err)
		h.writeServiceError(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, UploadResponse{URL: url})
}

func (h *ChatHTTPHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ChatHTTPHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.ClerkAuthMiddleware) {
	log.Printf("🚀 Registering chat API endpoints")

	router.HandleFunc("/dm-list", authMiddleware.WithAuth(h.HandleGetDMList)).Methods("GET")
	log.Printf("✅ GET /dm-list endpoint registered")

	router.HandleFunc("/dm-list", authMiddleware.WithAuth(h.HandleSaveDMList)).Methods("POST")
	log.Printf("✅ POST /dm-list endpoint registered")

	router.HandleFunc("/dm-list/remove", authMiddleware.WithAuth(h.HandleRemoveDMEntry)).Methods("DELETE")
	log.Printf("✅ DELETE /dm-list/remove endpoint registered")

	router.HandleFunc("/messages", authMiddleware.WithAuth(h.HandleListMessages)).Methods("GET")
	log.Printf("✅ GET /messages endpoint registered")

	router.HandleFunc("/messages", authMiddleware.WithAuth(h.HandleSendMessage)).Methods("POST")
	log.Printf("✅ POST /messages endpoint registered")

	router.HandleFunc("/messages", h.HandleClearMessages).Methods("DELETE")
	log.Printf("✅ DELETE /messages endpoint registered")

	router.HandleFunc("/messages/reaction", authMiddleware.WithAuth(h.HandleToggleReaction)).Methods("POST")
	log.Printf("✅ POST /messages/reaction endpoint registered")

	router.HandleFunc("/uploads", authMiddleware.WithAuth(h.HandleUpload)).Methods("POST")
	log.Printf("✅ POST /uploads endpoint registered")

	router.HandleFunc("/health", h.HandleHealth).Methods("GET")
	log.Printf("✅ GET /health endpoint registered")
}

// writeServiceError maps service errors onto HTTP status codes
func (h *ChatHTTPHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case core.IsValidationError(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case core.IsAuthorizationError(err):
		http.Error(w, err.Error(), http.StatusForbidden)
	case core.IsNotFoundError(err):
		http.Error(w, err.Error(), http.StatusNotFound)
	case core.IsUpstreamError(err):
		http.Error(w, "upstream dependency failed", http.StatusBadGateway)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *ChatHTTPHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
