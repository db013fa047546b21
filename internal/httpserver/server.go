// internal/httpserver/server.go
//
// HTTP server wiring for the Connections backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Game endpoints: POST /game/new, GET /game/{id}, and the token-guarded
//     POST /game/{id}/select|deselect|shuffle|submit.
//
// Notes:
//   - A winning or losing submit starts the end sequence on a background
//     goroutine; clients poll GET /game/{id} to watch the reveal.
//   - Categories are never sent until cleared.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/Joker666/nyt-connections-clone/internal/game"
	"github.com/Joker666/nyt-connections-clone/internal/metrics"
	"github.com/Joker666/nyt-connections-clone/internal/puzzles"
	"github.com/Joker666/nyt-connections-clone/internal/store"
)

// Options are the dependencies of a Server.
type Options struct {
	Store    store.Store
	Provider puzzles.Provider
	Source   string           // provider label for logs and metrics
	Metrics  *metrics.Metrics // nil disables /metrics
	Origin   string           // CORS origin
	Secret   string           // token signing key
	TokenTTL time.Duration
	Round    []game.Option // applied to every new round

	// RequestTimeout bounds every route except POST /game/new, which gets
	// NewGameTimeout so a slow puzzle source can run to its own deadline.
	// Both default to 10s.
	RequestTimeout time.Duration
	NewGameTimeout time.Duration

	// Detach runs an end sequence. Defaults to a new goroutine.
	Detach func(fn func())
}

const defaultTimeout = 10 * time.Second

// Server bundles router, round registry and puzzle provider.
type Server struct {
	r      *chi.Mux
	store  store.Store
	prov   puzzles.Provider
	source string
	met    *metrics.Metrics
	tokens tokenSigner
	round  []game.Option
	detach func(fn func())
}

// New constructs a Server, installs middleware, and registers routes.
func New(o Options) *Server {
	s := &Server{
		r:      chi.NewRouter(),
		store:  o.Store,
		prov:   o.Provider,
		source: o.Source,
		met:    o.Metrics,
		tokens: tokenSigner{secret: []byte(o.Secret), ttl: o.TokenTTL},
		round:  o.Round,
		detach: o.Detach,
	}
	if s.detach == nil {
		s.detach = func(fn func()) { go fn() }
	}
	if o.Origin == "" {
		o.Origin = "http://localhost:5173"
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = defaultTimeout
	}
	if o.NewGameTimeout <= 0 {
		o.NewGameTimeout = defaultTimeout
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(accessLog)
	s.r.Use(chimw.Recoverer)
	s.r.Use(jsonContentType)
	s.r.Use(cors(o.Origin))

	// The puzzle source may be a remote model; its deadline is configured apart.
	s.r.With(chimw.Timeout(o.NewGameTimeout)).Post("/game/new", s.handleNewGame)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(o.RequestTimeout))

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"connections-go","endpoints":["/health","/metrics","POST /game/new","GET /game/{id}","POST /game/{id}/select","POST /game/{id}/deselect","POST /game/{id}/shuffle","POST /game/{id}/submit"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Method(http.MethodGet, "/metrics", s.met.Handler())

		r.Route("/game/{id}", func(r chi.Router) {
			r.Use(s.withRound)
			r.Get("/", s.handleState)
			r.Group(func(r chi.Router) {
				r.Use(s.requireToken)
				r.Post("/select", s.handleSelect)
				r.Post("/deselect", s.handleDeselect)
				r.Post("/shuffle", s.handleShuffle)
				r.Post("/submit", s.handleSubmit)
			})
		})
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one zerolog line per request.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Debug().
		Str("reqId", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("took", d).
		Msg("request")
})

type ctxRoundKey struct{}

// withRound loads the round named in the URL into the request context.
func (s *Server) withRound(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rd, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxRoundKey{}, rd)))
	})
}

func roundFrom(r *http.Request) *game.Round {
	rd, _ := r.Context().Value(ctxRoundKey{}).(*game.Round)
	return rd
}

// ------------------------------ GAME ---------------------------------------

type newGameRes struct {
	GameID string     `json:"gameId"`
	Token  string     `json:"token"`
	State  game.State `json:"state"`
}

// handleNewGame asks the provider for a puzzle and registers a new round.
// Provider failures leave no round behind.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	cats, err := s.prov.Categories(r.Context())
	if err != nil {
		s.met.ProviderError(s.source)
		hlog.FromRequest(r).Error().Err(err).Str("source", s.source).Msg("load puzzle")
		writeError(w, http.StatusBadGateway, "provider_failed")
		return
	}

	id := uuid.NewString()
	opts := append([]game.Option{game.WithObserver(s.met)}, s.round...)
	rd := game.NewRound(id, game.NewSession(cats, nil), opts...)
	if err := s.store.Save(r.Context(), rd); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save round")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	tok, exp, err := s.tokens.sign(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	setTokenCookie(w, tok, exp)
	s.met.Started(s.source)
	hlog.FromRequest(r).Info().Str("round", id).Str("source", s.source).Msg("round started")

	_ = json.NewEncoder(w).Encode(newGameRes{GameID: id, Token: tok, State: rd.State()})
}

// handleState returns the current snapshot.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(roundFrom(r).State())
}

type selectReq struct {
	Word string `json:"word"`
}

// handleSelect toggles one word.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Word == "" {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	st, err := roundFrom(r).Select(req.Word)
	writeState(w, st, err)
}

func (s *Server) handleDeselect(w http.ResponseWriter, r *http.Request) {
	st, err := roundFrom(r).DeselectAll()
	writeState(w, st, err)
}

func (s *Server) handleShuffle(w http.ResponseWriter, r *http.Request) {
	st, err := roundFrom(r).Shuffle()
	writeState(w, st, err)
}

type submitRes struct {
	Result game.Result `json:"result"`
	State  game.State  `json:"state"`
}

// handleSubmit evaluates the selection; a win or loss starts the end sequence.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	rd := roundFrom(r)
	res, st, err := rd.Submit()
	if err != nil {
		writeState(w, st, err)
		return
	}
	if res.Ends() {
		s.detach(func() {
			if err := rd.Finish(); err != nil {
				log.Warn().Err(err).Str("round", rd.ID).Msg("end sequence")
			}
		})
	}
	_ = json.NewEncoder(w).Encode(submitRes{Result: res, State: st})
}

// writeState maps round errors onto status codes.
func writeState(w http.ResponseWriter, st game.State, err error) {
	switch {
	case errors.Is(err, game.ErrGameOver):
		writeError(w, http.StatusConflict, "game_over")
	case errors.Is(err, game.ErrSelectionSize):
		writeError(w, http.StatusBadRequest, "select_four")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal")
	default:
		_ = json.NewEncoder(w).Encode(st)
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
