package diag

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"tracksync/internal/logging"
)

// StatusResponse is the payload served by GET /status: the driver's view of
// the current/most recent sync plus a host resource snapshot.
type StatusResponse struct {
	State       string       `json:"state"`
	Uptime      string       `json:"uptime"`
	LastError   string       `json:"last_error,omitempty"`
	Host        HostSnapshot `json:"host"`
}

// Server exposes a small local HTTP surface (/status, /healthz) over the
// daemon's current sync state: gin.New + gin.Recovery, two GET routes,
// JSON handlers reading from a mutex-guarded state struct.
type Server struct {
	log       *logging.Logger
	startedAt time.Time

	mu        sync.RWMutex
	state     string
	lastError string
}

// NewServer builds a Server in the "idle" state.
func NewServer(log *logging.Logger) *Server {
	return &Server{log: log, startedAt: time.Now(), state: "idle"}
}

// SetState updates the reported sync state (e.g. "bringing-up",
// "syncing", "idle"), clearing any previous error.
func (s *Server) SetState(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.lastError = ""
}

// SetError records the last sync failure and moves the state to "error".
func (s *Server) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = "error"
	if err != nil {
		s.lastError = err.Error()
	}
}

// Router builds the gin engine serving /status and /healthz.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", s.handleHealthz)
	router.GET("/status", s.handleStatus)
	return router
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleStatus(c *gin.Context) {
	s.mu.RLock()
	state, lastErr := s.state, s.lastError
	s.mu.RUnlock()

	snap, err := Snapshot()
	if err != nil {
		s.log.Warn("host snapshot failed: %v", err)
	}

	c.JSON(http.StatusOK, StatusResponse{
		State:     state,
		Uptime:    time.Since(s.startedAt).String(),
		LastError: lastErr,
		Host:      snap,
	})
}
