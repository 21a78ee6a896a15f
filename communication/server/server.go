package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"wargames/communication"
	"wargames/game"
	"wargames/gamemaster"
)

const maxJSONBodyBytes int64 = 1 << 16

// Server exposes one game session over HTTP and a websocket update stream.
type Server struct {
	session *gamemaster.Session
	mapView communication.MapView
	logger  zerolog.Logger

	srvMu sync.Mutex
	srv   *http.Server
}

func NewServer(session *gamemaster.Session, logger zerolog.Logger) *Server {
	return &Server{
		session: session,
		mapView: communication.NewMapView(session.State().Map),
		logger:  logger.With().Str("component", "server").Logger(),
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	api := r.Group("/api")
	api.GET("/state", getState(s.session))
	api.GET("/map", getMap(s.mapView))
	api.GET("/actions", getActions(s.session))
	api.POST("/actions", postAction(s.session, s.logger))
	api.POST("/reset", postReset(s.session))

	r.GET("/ws", HandleWebsocket(s.session, s.logger))

	return r
}

// Listen serves until Close is called.
func (s *Server) Listen(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()

	s.logger.Info().Msgf("listening on %s", addr)
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close attempts a graceful shutdown of the HTTP server.
func (s *Server) Close(ctx context.Context) error {
	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

func stateView(session *gamemaster.Session) communication.StateView {
	return communication.NewStateView(session.ID().String(), session.State())
}

func getState(session *gamemaster.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, stateView(session))
	}
}

func getMap(view communication.MapView) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, view)
	}
}

func getActions(session *gamemaster.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, session.LegalActions())
	}
}

func postAction(session *gamemaster.Session, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxJSONBodyBytes)

		var action game.Action
		if err := c.ShouldBindJSON(&action); err != nil {
			c.JSON(http.StatusBadRequest, communication.ErrorResponse{Error: err.Error()})
			return
		}

		// AI turns that follow must finish even if the caller goes away
		result, err := session.Play(context.WithoutCancel(c.Request.Context()), action)
		if err != nil {
			status := statusFor(err)
			if status == http.StatusInternalServerError {
				logger.Error().Err(err).Msgf("playing %s", action)
			}
			c.JSON(status, communication.ErrorResponse{Error: err.Error()})
			return
		}

		c.JSON(http.StatusOK, communication.ActionResponse{
			Result: communication.NewAttackResultView(result),
			State:  stateView(session),
		})
	}
}

func postReset(session *gamemaster.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := session.Reset(context.WithoutCancel(c.Request.Context())); err != nil {
			c.JSON(http.StatusInternalServerError, communication.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, stateView(session))
	}
}

var ruleErrors = []error{
	game.ErrWrongPhase,
	game.ErrUnknownTerritory,
	game.ErrNotOwner,
	game.ErrOwnTerritory,
	game.ErrNotAdjacent,
	game.ErrInsufficientTroops,
	game.ErrNoReinforcements,
	game.ErrNoSpecialAttacks,
	game.ErrInvalidCount,
	game.ErrUnknownAction,
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, gamemaster.ErrNotYourTurn),
		errors.Is(err, gamemaster.ErrSessionOver),
		errors.Is(err, game.ErrGameOver):
		return http.StatusConflict
	}
	for _, target := range ruleErrors {
		if errors.Is(err, target) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}
