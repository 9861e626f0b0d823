// Package server wires the registry, transcript store, dispatch
// lanes, and timer supervisor into one HTTP+WebSocket process: the
// lobby-facing surface described by §6 "External Interfaces",
// grounded on the teacher's internal/server/server.go mux-and-upgrader
// shape.
package server

import (
	"context"
	"math/rand"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/cardtable/tablesvc/internal/bot"
	"github.com/cardtable/tablesvc/internal/config"
	"github.com/cardtable/tablesvc/internal/dispatch"
	"github.com/cardtable/tablesvc/internal/game"
	"github.com/cardtable/tablesvc/internal/registry"
	"github.com/cardtable/tablesvc/internal/transcript"
)

const defaultLobbyID = "default"

// Server is the process-wide lobby: one registry of tables, one name
// set, one transcript store, one lane manager, and the websocket
// front door onto all of them.
type Server struct {
	Env config.Env

	registry    *registry.Registry
	names       *registry.Names
	transcripts *transcript.Store
	lanes       *dispatch.Manager
	rooms       *dispatch.Rooms
	logger      *log.Logger

	upgrader websocket.Upgrader
	mux      *http.ServeMux
	http     *http.Server

	mu        sync.Mutex
	sessions  map[*dispatch.Session]*clientState
	gamesByID map[string]*dispatch.Lane
}

// clientState is the per-connection context the teacher keeps inline
// on its Bot struct (internal/server/bot.go); kept out-of-band here so
// dispatch.Session stays a pure transport primitive.
type clientState struct {
	lobbyID     string
	playerID    string
	displayName string
	tableID     string
	seat        game.SeatPosition
	seated      bool
	spectating  bool
}

// New constructs a Server around its shared collaborators.
func New(env config.Env, reg *registry.Registry, names *registry.Names, transcripts *transcript.Store, lanes *dispatch.Manager, rooms *dispatch.Rooms, logger *log.Logger) *Server {
	s := &Server{
		Env:         env,
		registry:    reg,
		names:       names,
		transcripts: transcripts,
		lanes:       lanes,
		rooms:       rooms,
		logger:      logger,
		mux:         http.NewServeMux(),
		sessions:    make(map[*dispatch.Session]*clientState),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				if env.FrontendURL == "" {
					return true
				}
				return r.Header.Get("Origin") == env.FrontendURL
			},
		},
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.HandleFunc("/health", s.handleHealth)
}

// Serve runs the HTTP server on listener until ctx is canceled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.http = &http.Server{Handler: s.mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.http.Shutdown(shutdownCtx)
	}()
	s.logger.Info("tablesvc listening", "addr", listener.Addr().String())
	err := s.http.Serve(listener)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "err", err)
		return
	}

	sess := dispatch.NewSession(uuid.NewString(), conn, s, s.logger)
	s.mu.Lock()
	s.sessions[sess] = &clientState{lobbyID: defaultLobbyID}
	s.mu.Unlock()

	go sess.WritePump()
	sess.ReadPump(s.onSessionClosed)
}

func (s *Server) onSessionClosed(sess *dispatch.Session) {
	s.mu.Lock()
	st, ok := s.sessions[sess]
	delete(s.sessions, sess)
	s.mu.Unlock()
	if !ok {
		return
	}

	s.rooms.LeaveAll(sess)
	if st.playerID != "" {
		s.names.Release(st.displayName)
	}
	if st.tableID != "" && st.seated {
		s.exitPlayer(st)
	}
}

func (s *Server) state(sess *dispatch.Session) *clientState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[sess]
}

// seatsFor builds the bot.Seats policy map for a table's bot
// occupants, pairing skill tier to policy family (§4.7: baseline
// tiers easy/medium/hard by hand-value threshold, advanced tier by
// card-tracking heuristics).
func seatsFor(t *registry.Table, rng *rand.Rand) bot.Seats {
	out := bot.Seats{}
	for i, p := range t.Seats {
		if p == nil || !p.IsBot {
			continue
		}
		seat := game.SeatPosition(i)
		if p.BotSkill == game.SkillAdvanced {
			out[seat] = bot.NewAdvancedPolicy()
		} else {
			out[seat] = bot.NewBaselinePolicy(rng)
		}
	}
	return out
}

