// Package debugserver 通过 HTTP 暴露会话状态和波次控制，供外部调试界面使用
//
// 所有修改状态的请求都通过 Session.Submit 在模拟协程上执行。
package debugserver

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/decker502/arena/pkg/session"
	"github.com/decker502/arena/pkg/systems"
)

// requestTimeout 单个请求等待模拟协程的最长时间
const requestTimeout = 5 * time.Second

// Handler 调试接口
type Handler struct {
	session *session.Session
}

// NewHandler 创建调试接口
func NewHandler(s *session.Session) *Handler {
	return &Handler{session: s}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/state", h.state)
	r.Get("/levels", h.levels)
	r.Post("/levels/{name}/start", h.startLevel)
	r.Route("/waves", func(r chi.Router) {
		r.Post("/next", h.nextWave)
		r.Post("/{n}/force", h.forceWave)
	})
}

// NewRouter 创建带常用中间件的路由
func NewRouter(s *session.Session) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout + time.Second))

	NewHandler(s).RegisterRoutes(r)
	return r
}

// ListenAndServe 在 addr 上提供调试接口，ctx 取消时优雅关闭
func ListenAndServe(ctx context.Context, addr string, s *session.Session) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(s),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("[DebugServer] Warning: shutdown failed: %v", err)
		}
	}()

	log.Printf("[DebugServer] Listening on http://%s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type levelInfo struct {
	Name    string `json:"name"`
	Waves   int    `json:"waves"`
	Endless bool   `json:"endless"`
	Advance string `json:"advance"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.Snapshot())
}

func (h *Handler) levels(w http.ResponseWriter, r *http.Request) {
	var out []levelInfo
	for _, l := range h.session.Content().Levels.Levels {
		out = append(out, levelInfo{Name: l.Name, Waves: l.Waves, Endless: l.IsEndless(), Advance: l.Advance})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) startLevel(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	h.submit(w, r, func(s *session.Session) error { return s.StartLevel(name) })
}

func (h *Handler) nextWave(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, func(s *session.Session) error { return s.NextWave() })
}

func (h *Handler) forceWave(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid wave number"})
		return
	}
	h.submit(w, r, func(s *session.Session) error { return s.ForceStartWave(n) })
}

// submit 在模拟协程上执行命令，成功时返回最新快照
func (h *Handler) submit(w http.ResponseWriter, r *http.Request, cmd session.Command) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.session.Submit(ctx, cmd); err != nil {
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, h.session.Snapshot())
}

// statusFor 将会话错误映射为 HTTP 状态码
func statusFor(err error) int {
	switch {
	case errors.Is(err, systems.ErrUnknownLevel):
		return http.StatusNotFound
	case errors.Is(err, systems.ErrInvalidWave):
		return http.StatusBadRequest
	case errors.Is(err, systems.ErrWaveInProgress),
		errors.Is(err, systems.ErrLevelOver),
		errors.Is(err, systems.ErrNoLevel):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, session.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[DebugServer] ERROR: failed to encode response: %v", err)
	}
}
