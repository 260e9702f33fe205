// internal/httpserver/routes_round.go
//
// Session endpoints:
//   - POST /words          → body is a UTF-8 word file; loads it and starts a round
//   - POST /words/default  → loads the server's default list and starts a round
//   - GET  /round          → current view
//   - POST /round/new      → new round from the loaded list ({"mode":"random"|"daily"})
//   - POST /round/guess    → submit one letter ({"letter":"a"})
//
// Every response carries the session view so the client can re-render from it.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/hangman/internal/daily"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/session"
	"github.com/robalobadob/hangman/internal/store"
	"github.com/robalobadob/hangman/internal/words"
)

const (
	modeRandom = "random"
	modeDaily  = "daily"
)

// errBody is the JSON shape of every error response.
type errBody struct {
	Error   string        `json:"error"`
	Message string        `json:"message,omitempty"`
	View    *session.View `json:"view,omitempty"`
}

type newRoundReq struct {
	Mode string `json:"mode"`
}

type guessReq struct {
	Letter string `json:"letter"`
}

type guessRes struct {
	Outcome game.Outcome `json:"outcome"`
	View    session.View `json:"view"`
}

func (s *Server) handleLoadWords(w http.ResponseWriter, r *http.Request) {
	lines, err := words.Read(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errBody{Error: "too_large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errBody{Error: "bad_body", Message: err.Error()})
		return
	}
	s.load(w, r, func(sess *session.Session) error {
		return sess.LoadLines(lines, s.pick)
	})
}

func (s *Server) handleDefaultWords(w http.ResponseWriter, r *http.Request) {
	s.load(w, r, func(sess *session.Session) error {
		return sess.LoadWords(words.Default(), s.pick)
	})
}

// load applies a word list change and reports the resulting view.
func (s *Server) load(w http.ResponseWriter, r *http.Request, fn func(*session.Session) error) {
	var v session.View
	err := s.store.Update(r.Context(), sessionID(r.Context()), func(sess *session.Session) error {
		err := fn(sess)
		v = sess.View()
		return err
	})
	if err != nil {
		s.writeErr(w, r, err, &v)
		return
	}
	hlog.FromRequest(r).Info().
		Str("session", sessionID(r.Context())).
		Int("words", v.WordCount).
		Int("length", v.Length).
		Msg("words loaded, round started")
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleRound(w http.ResponseWriter, r *http.Request) {
	v, err := s.store.Get(r.Context(), sessionID(r.Context()))
	if err != nil {
		s.writeErr(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	var req newRoundReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errBody{Error: "bad_json"})
		return
	}

	pick := s.pick
	switch req.Mode {
	case "", modeRandom:
		req.Mode = modeRandom
	case modeDaily:
		pick = daily.Picker(s.now(), s.cfg.DailySalt)
	default:
		writeJSON(w, http.StatusBadRequest, errBody{Error: "bad_mode", Message: "mode must be random or daily"})
		return
	}

	var v session.View
	err := s.store.Update(r.Context(), sessionID(r.Context()), func(sess *session.Session) error {
		err := sess.NewRound(pick)
		v = sess.View()
		return err
	})
	if err != nil {
		s.writeErr(w, r, err, &v)
		return
	}
	hlog.FromRequest(r).Info().
		Str("session", sessionID(r.Context())).
		Str("mode", req.Mode).
		Int("length", v.Length).
		Msg("round started")
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody{Error: "bad_json"})
		return
	}

	var (
		v   session.View
		out game.Outcome
	)
	err := s.store.Update(r.Context(), sessionID(r.Context()), func(sess *session.Session) error {
		var err error
		out, err = sess.Guess(req.Letter)
		v = sess.View()
		return err
	})
	if err != nil {
		s.writeErr(w, r, err, &v)
		return
	}
	if v.State.Terminal() {
		hlog.FromRequest(r).Info().
			Str("session", sessionID(r.Context())).
			Str("state", string(v.State)).
			Int("wrong", v.WrongCount).
			Msg("round finished")
	}
	writeJSON(w, http.StatusOK, guessRes{Outcome: out, View: v})
}

// writeErr maps domain errors to HTTP status codes.
func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error, v *session.View) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, game.ErrEmptyList):
		status, code = http.StatusUnprocessableEntity, "empty_list"
	case errors.Is(err, game.ErrEmptyInput):
		status, code = http.StatusBadRequest, "empty_input"
	case errors.Is(err, game.ErrNonLetter):
		status, code = http.StatusBadRequest, "non_letter"
	case errors.Is(err, game.ErrDuplicateGuess):
		status, code = http.StatusConflict, "duplicate_guess"
	case errors.Is(err, game.ErrNotStarted):
		status, code = http.StatusConflict, "not_started"
	case errors.Is(err, game.ErrRoundOver):
		status, code = http.StatusConflict, "round_over"
	case errors.Is(err, session.ErrNoWords):
		status, code = http.StatusConflict, "no_words"
	case errors.Is(err, store.ErrNotFound):
		status, code = http.StatusNotFound, "session_not_found"
		v = nil
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		writeJSON(w, status, errBody{Error: code})
		return
	}

	body := errBody{Error: code, View: v}
	if v != nil {
		body.Message = v.Message
	}
	writeJSON(w, status, body)
}
