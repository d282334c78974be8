package api

import (
	"errors"
	"math/rand/v2"
	"net/http"

	"github.com/dd0wney/cluso-constellations/pkg/algorithms"
	"github.com/dd0wney/cluso-constellations/pkg/connections"
	"github.com/dd0wney/cluso-constellations/pkg/logging"
	"github.com/dd0wney/cluso-constellations/pkg/metrics"
	"github.com/dd0wney/cluso-constellations/pkg/validation"
)

// challengeRand returns the generator for one challenge. A seed makes the
// draw reproducible.
func challengeRand(seed *uint64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewPCG(*seed, *seed))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// handleNewChallenge generates a start/target pair and opens a session on
// it. A graph too small or too sparse for the hop range is answered with
// 422, not treated as a server error.
func (s *Server) handleNewChallenge(w http.ResponseWriter, r *http.Request) {
	var req validation.ChallengeRequest
	rd := s.newRequestDecoder(w, r).DecodeJSON(&req).Validate(&req)
	opts := req.OptionsFrom(s.challenge)
	rd.Check(func() error { return validation.ValidateChallengeOptions(opts) })
	if rd.RespondError() {
		return
	}
	snap, ok := s.snapshot(w, req.Constellation)
	if !ok {
		return
	}

	challenge := algorithms.GenerateChallenge(snap.Graph.Nodes, snap.Adjacency, opts, challengeRand(req.Seed))
	if challenge == nil {
		s.metricsRegistry.RecordChallenge(false, opts.MaxAttempts, 0)
		s.respondError(w, http.StatusUnprocessableEntity, "unable to generate a challenge for this constellation")
		return
	}
	s.metricsRegistry.RecordChallenge(true, challenge.Attempts, challenge.OptimalHops)

	session, err := s.sessions.StartOn(snap.Key.String(), challenge, snap.Adjacency, snap.Lookup)
	if err != nil {
		s.respondDomainError(w, "start challenge", err)
		return
	}
	s.logger.Debug("challenge started",
		logging.String("session_id", session.ID),
		logging.Hops(challenge.OptimalHops),
		logging.Attempts(challenge.Attempts),
	)
	s.respondJSON(w, http.StatusCreated, gameResponse(session))
}

func (s *Server) handleGetChallenge(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, gameResponse(session))
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var req validation.MoveRequest
	if s.newRequestDecoder(w, r).DecodeJSON(&req).Validate(&req).RespondError() {
		return
	}

	if err := session.Move(req.NodeID); err != nil {
		s.metricsRegistry.RecordMove(moveResult(err))
		s.respondDomainError(w, "move", err)
		return
	}
	result := "moved"
	if session.Status() == connections.StatusWon {
		result = "won"
	}
	s.metricsRegistry.RecordMove(result)
	s.respondJSON(w, http.StatusOK, gameResponse(session))
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	if !session.Undo() {
		s.respondError(w, http.StatusConflict, "nothing to undo")
		return
	}
	s.metricsRegistry.RecordMove("undo")
	s.respondJSON(w, http.StatusOK, gameResponse(session))
}

func (s *Server) handleGiveUp(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	session.GiveUp()
	s.respondJSON(w, http.StatusOK, gameResponse(session))
}

func (s *Server) handleEndChallenge(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.End(r.PathValue("id")) {
		s.respondError(w, http.StatusNotFound, "challenge not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*connections.Session, bool) {
	session, ok := s.sessions.Get(r.PathValue("id"))
	if !ok {
		s.respondError(w, http.StatusNotFound, "challenge not found")
		return nil, false
	}
	return session, true
}

func moveResult(err error) string {
	switch {
	case errors.Is(err, connections.ErrNotAdjacent):
		return "not_adjacent"
	case errors.Is(err, connections.ErrUnknownNode):
		return "unknown"
	case errors.Is(err, connections.ErrFinished):
		return "finished"
	default:
		return metrics.ResultError
	}
}

func gameResponse(session *connections.Session) GameResponse {
	resp := GameResponse{
		ID:        session.ID,
		Start:     session.Challenge.Start,
		Target:    session.Challenge.Target,
		Current:   session.Current(),
		Status:    session.Status(),
		Hops:      session.Hops(),
		Path:      session.Path(),
		Options:   session.Options(nil),
		StartedAt: session.StartedAt,
	}
	if resp.Status != connections.StatusPlaying {
		result := session.Result()
		resp.Result = &result
		resp.Options = nil
	}
	return resp
}
