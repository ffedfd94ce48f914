package console

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/resume-console/internal/service/api"
	"github.com/zhouzirui/resume-console/internal/service/coordinator"
	"github.com/zhouzirui/resume-console/internal/view"
	"github.com/zhouzirui/resume-console/pkg/utils"
)

//go:embed static/index.html
var static embed.FS

// maxUploadMemory caps the multipart form kept in memory; larger files spill to disk.
const maxUploadMemory = 32 << 20

// Flows 是处理器依赖的控制器能力
type Flows interface {
	Handle(ctx context.Context, ev coordinator.Event) error
}

// Handler 控制台页面与动作的HTTP处理器
type Handler struct {
	flows    Flows
	state    *view.State
	upgrader websocket.Upgrader
}

// New 创建控制台处理器
func New(flows Flows, state *view.State) *Handler {
	return &Handler{
		flows: flows,
		state: state,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// RegisterRoutes 注册控制台相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/state", h.handleState)
	r.Post("/actions/{action}", h.handleAction)
	r.Get("/ws", h.handleWebSocket)
	r.Get("/events", h.handleEvents)
}

// HandleIndex 返回单页控制台
func (h *Handler) HandleIndex(w http.ResponseWriter, _ *http.Request) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "page unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// StateResponse is a snapshot plus its pre-rendered, escaped markup.
type StateResponse struct {
	view.Snapshot
	HTML Fragments `json:"html"`
}

// Fragments are HTML renderings of the skill area and transcript.
type Fragments struct {
	Skills     string `json:"skills"`
	Transcript string `json:"transcript"`
}

func newStateResponse(snap view.Snapshot) StateResponse {
	return StateResponse{
		Snapshot: snap,
		HTML: Fragments{
			Skills:     view.SkillsHTML(snap.Skills),
			Transcript: view.TranscriptHTML(snap.Transcript),
		},
	}
}

// handleState 返回当前视图
func (h *Handler) handleState(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, newStateResponse(h.state.Snapshot()))
}

// handleAction 执行一个命名动作并返回新的视图
func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request) {
	action, err := coordinator.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	ev := coordinator.Event{Action: action}
	switch action {
	case coordinator.ActionExtract:
		upload, cleanup, err := readUpload(r)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		defer cleanup()
		ev.File = upload
	case coordinator.ActionSendChat:
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		h.state.SetChatInput(payload.Message)
		ev.Message = payload.Message
	}

	// 请求一旦发出就不会被取消，即使浏览器已断开。
	ctx := context.WithoutCancel(r.Context())
	if err := h.flows.Handle(ctx, ev); err != nil {
		if errors.Is(err, coordinator.ErrTriggerDisabled) {
			utils.RespondError(w, http.StatusConflict, err.Error())
			return
		}
		log.Printf("[ui] action %s failed: %v", action, err)
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, newStateResponse(h.state.Snapshot()))
}

// readUpload returns the selected file, or nil when none was sent. A missing
// file is not an error here; the extraction flow reports it to the user.
func readUpload(r *http.Request) (*api.Upload, func(), error) {
	noop := func() {}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, errors.New("invalid multipart body")
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, errors.New("invalid file field")
	}

	return &api.Upload{Filename: header.Filename, Content: file}, func() { _ = file.Close() }, nil
}

// handleEvents 通过SSE推送视图变化
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)

	updates, cancel := h.state.Subscribe()
	defer cancel()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if err := utils.SendSSEComment(w, flusher, "heartbeat"); err != nil {
				return
			}
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err := utils.SendSSEEvent(w, flusher, snap.Version, "state", newStateResponse(snap)); err != nil {
				log.Printf("[sse] write failed: %v", err)
				return
			}
		}
	}
}
