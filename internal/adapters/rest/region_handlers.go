package rest

import (
	"encoding/json"
	"fmt"
	"marketplace-service/internal/adapters/notifier"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
	"marketplace-service/internal/core/port/usecases_port"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const sseKeepAliveInterval = 15 * time.Second

type RegionHandler struct {
	sessionsUC    usecases_port.RegionSessionsUseCase
	listRegionsUC usecases_port.ListRegionsUseCase
	notifier      *notifier.SSENotifier
}

func NewRegionHandler(
	sessionsUC usecases_port.RegionSessionsUseCase,
	listRegionsUC usecases_port.ListRegionsUseCase,
	sseNotifier *notifier.SSENotifier,
) *RegionHandler {
	return &RegionHandler{
		sessionsUC:    sessionsUC,
		listRegionsUC: listRegionsUC,
		notifier:      sseNotifier,
	}
}

// ListRegions - GET /api/v1/regions?level=city&parent_id=32
func (h *RegionHandler) ListRegions(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListRegions"})

	level := domain.LevelProvince
	if raw := r.URL.Query().Get("level"); raw != "" {
		parsed, err := domain.ParseRegionLevel(raw)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		level = parsed
	}
	parentID := strings.TrimSpace(r.URL.Query().Get("parent_id"))

	regions, err := h.listRegionsUC.Execute(r.Context(), level, parentID)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	if regions == nil {
		regions = []domain.Region{}
	}
	RespondWithJSON(w, http.StatusOK, RegionListResponse{Level: level.String(), ParentID: parentID, Regions: regions})
}

// CreateSession - POST /api/v1/region-sessions
func (h *RegionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateRegionSession"})
	state, err := h.sessionsUC.Create(r.Context())
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	w.Header().Set("Location", "/api/v1/region-sessions/"+state.SessionID.String())
	RespondWithJSON(w, http.StatusCreated, toSelectorStateResponse(state))
}

func sessionIDFromURL(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid session ID format")
		return uuid.Nil, false
	}
	return sessionID, true
}

// GetSession - GET /api/v1/region-sessions/{sessionID}
func (h *RegionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetRegionSession"})
	sessionID, ok := sessionIDFromURL(w, r)
	if !ok {
		return
	}
	state, err := h.sessionsUC.Get(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toSelectorStateResponse(state))
}

// DeleteSession - DELETE /api/v1/region-sessions/{sessionID}
func (h *RegionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "DeleteRegionSession"})
	sessionID, ok := sessionIDFromURL(w, r)
	if !ok {
		return
	}
	if err := h.sessionsUC.Delete(r.Context(), sessionID); err != nil {
		writeDomainError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Open - POST /api/v1/region-sessions/{sessionID}/open
func (h *RegionHandler) Open(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "OpenRegionSelector"})
	sessionID, ok := sessionIDFromURL(w, r)
	if !ok {
		return
	}
	state, err := h.sessionsUC.Open(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toSelectorStateResponse(state))
}

// GoBack - POST /api/v1/region-sessions/{sessionID}/back
func (h *RegionHandler) GoBack(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "RegionSelectorBack"})
	sessionID, ok := sessionIDFromURL(w, r)
	if !ok {
		return
	}
	state, err := h.sessionsUC.GoBack(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, toSelectorStateResponse(state))
}

type regionAction func(h *RegionHandler, r *http.Request, sessionID uuid.UUID, regionID string) (usecases_port.SelectorState, error)

// handleRegionAction - общий разбор для drill/toggle: id сессии из URL и region_id из тела.
func (h *RegionHandler) handleRegionAction(name string, action regionAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": name})
		sessionID, ok := sessionIDFromURL(w, r)
		if !ok {
			return
		}
		r = r.WithContext(contextkeys.WithLoggerFields(r.Context(), port.Fields{"session_id": sessionID.String()}))

		var req RegionActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("Failed to decode region action body", port.Fields{"error": err.Error()})
			WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		req.RegionID = strings.TrimSpace(req.RegionID)
		if req.RegionID == "" {
			WriteJSONError(w, http.StatusBadRequest, "Field 'region_id' is required")
			return
		}

		state, err := action(h, r, sessionID, req.RegionID)
		if err != nil {
			writeDomainError(w, logger, err)
			return
		}
		RespondWithJSON(w, http.StatusOK, toSelectorStateResponse(state))
	}
}

// DrillInto - POST /api/v1/region-sessions/{sessionID}/drill
func (h *RegionHandler) DrillInto() http.HandlerFunc {
	return h.handleRegionAction("RegionSelectorDrill", func(h *RegionHandler, r *http.Request, id uuid.UUID, regionID string) (usecases_port.SelectorState, error) {
		return h.sessionsUC.DrillInto(r.Context(), id, regionID)
	})
}

// ToggleSelect - POST /api/v1/region-sessions/{sessionID}/toggle
func (h *RegionHandler) ToggleSelect() http.HandlerFunc {
	return h.handleRegionAction("RegionSelectorToggle", func(h *RegionHandler, r *http.Request, id uuid.UUID, regionID string) (usecases_port.SelectorState, error) {
		return h.sessionsUC.ToggleSelect(r.Context(), id, regionID)
	})
}

// SubscribeToEvents - GET /api/v1/region-sessions/{sessionID}/events (SSE)
func (h *RegionHandler) SubscribeToEvents(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SubscribeToRegionEvents"})
	sessionID, ok := sessionIDFromURL(w, r)
	if !ok {
		return
	}
	if _, err := h.sessionsUC.Get(r.Context(), sessionID); err != nil {
		writeDomainError(w, logger, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteJSONError(w, http.StatusInternalServerError, "Streaming is not supported")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"session_id": sessionID.String()})
	handlerLogger.Info("New client subscribing to selector events", nil)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := h.notifier.AddClient(sessionID)
	defer h.notifier.RemoveClient(sessionID, clientChan)

	fmt.Fprint(w, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	ticker := time.NewTicker(sseKeepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-clientChan:
			if _, err := w.Write(data); err != nil {
				handlerLogger.Error("Error writing to client, closing SSE connection", err, nil)
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			handlerLogger.Info("Client closed SSE connection", nil)
			return
		case <-h.notifier.Done():
			handlerLogger.Info("Notifier stopped, closing SSE connection", nil)
			return
		}
	}
}
