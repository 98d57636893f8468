// Package server implements the refa HTTP API: a chi router over the
// compiled-pattern cache, grounded on the teacher's server package (the
// same Endpoint/Result/middle shape, generalized from game sessions to
// regex patterns).
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dekarrin/refa/internal/cache"
	"github.com/dekarrin/refa/internal/fa"
	"github.com/dekarrin/refa/internal/regex"
	"github.com/dekarrin/refa/server/middle"
	"github.com/dekarrin/refa/server/result"
	"github.com/dekarrin/refa/server/token"
)

// Config carries the parameters needed to construct a Server.
type Config struct {
	// Store is the compiled-pattern cache the API reads and writes through.
	Store cache.Store

	// TokenSecret signs and verifies the bearer JWTs issued by POST /v1/auth.
	TokenSecret []byte

	// APIKeyHash is the bcrypt hash of the single shared API key accepted by
	// POST /v1/auth. There is no user or registration system in this API;
	// see DESIGN.md for why that part of the teacher's domain has no home
	// here.
	APIKeyHash []byte

	// UnauthDelay is the amount of time an unauthorized/unauthenticated
	// response is held before being sent, mirrored from the teacher's
	// Config.UnauthDelayMillis.
	UnauthDelay time.Duration
}

// New builds a chi.Router implementing the API described in SPEC_FULL.md
// §4.11.
func New(cfg Config) http.Handler {
	s := &server{cfg: cfg}

	r := chi.NewRouter()
	r.Use(chiMiddleware(middle.DontPanic()))

	r.Post("/v1/auth", s.postAuth)

	r.Group(func(r chi.Router) {
		r.Use(chiMiddleware(middle.RequireAuth(cfg.TokenSecret, cfg.UnauthDelay)))
		r.Post("/v1/patterns", s.postPattern)
		r.Get("/v1/patterns/{id}", s.getPattern)
		r.Post("/v1/patterns/{id}/match", s.postMatch)
	})

	return r
}

// chiMiddleware adapts a middle.Middleware (a plain func(Handler) Handler)
// to the signature chi.Router.Use expects.
func chiMiddleware(mw middle.Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next)
	}
}

type server struct {
	cfg Config
}

type authRequest struct {
	APIKey string `json:"api_key"`
}

type authResponse struct {
	Token string `json:"token"`
}

func (s *server) postAuth(w http.ResponseWriter, req *http.Request) {
	var body authRequest
	if err := parseJSON(req, &body); err != nil {
		writeResult(w, req, result.BadRequest(err.Error(), err.Error()))
		return
	}

	if err := bcrypt.CompareHashAndPassword(s.cfg.APIKeyHash, []byte(body.APIKey)); err != nil {
		writeResult(w, req, result.Unauthorized("The supplied API key is incorrect", "bad api key: %s", err.Error()))
		return
	}

	tok, err := token.Issue(s.cfg.TokenSecret)
	if err != nil {
		writeResult(w, req, result.InternalServerError("issue token: %s", err.Error()))
		return
	}

	writeResult(w, req, result.Created(authResponse{Token: tok}, "issued token"))
}

type patternRequest struct {
	Pattern string `json:"pattern"`
}

type patternResponse struct {
	ID      string `json:"id"`
	Pattern string `json:"pattern"`
}

func (s *server) postPattern(w http.ResponseWriter, req *http.Request) {
	var body patternRequest
	if err := parseJSON(req, &body); err != nil {
		writeResult(w, req, result.BadRequest(err.Error(), err.Error()))
		return
	}

	entry, err := s.cfg.Store.Compile(body.Pattern, regex.Compile)
	if err != nil {
		var faErr *fa.Error
		if errors.As(err, &faErr) && faErr.Kind == fa.KindParse {
			writeResult(w, req, result.BadRequest(err.Error(), "compile %q: %s", body.Pattern, err.Error()))
			return
		}
		writeResult(w, req, result.InternalServerError("compile %q: %s", body.Pattern, err.Error()))
		return
	}

	resp := patternResponse{ID: entry.ID.String(), Pattern: entry.Pattern}
	writeResult(w, req, result.Created(resp, "compiled pattern %q as %s", entry.Pattern, entry.ID))
}

func (s *server) getPattern(w http.ResponseWriter, req *http.Request) {
	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		writeResult(w, req, result.NotFound("bad id param: %s", err.Error()))
		return
	}

	entry, ok, err := s.cfg.Store.Get(id)
	if err != nil {
		writeResult(w, req, result.InternalServerError("look up pattern %s: %s", id, err.Error()))
		return
	}
	if !ok {
		writeResult(w, req, result.NotFound("pattern %s not found", id))
		return
	}

	resp := patternResponse{ID: entry.ID.String(), Pattern: entry.Pattern}
	writeResult(w, req, result.OK(resp, "got pattern %s", id))
}

type matchRequest struct {
	Input string `json:"input"`
}

type matchResponse struct {
	Accepted bool `json:"accepted"`
}

func (s *server) postMatch(w http.ResponseWriter, req *http.Request) {
	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		writeResult(w, req, result.NotFound("bad id param: %s", err.Error()))
		return
	}

	entry, ok, err := s.cfg.Store.Get(id)
	if err != nil {
		writeResult(w, req, result.InternalServerError("look up pattern %s: %s", id, err.Error()))
		return
	}
	if !ok {
		writeResult(w, req, result.NotFound("pattern %s not found", id))
		return
	}

	var body matchRequest
	if err := parseJSON(req, &body); err != nil {
		writeResult(w, req, result.BadRequest(err.Error(), err.Error()))
		return
	}

	accepted, err := entry.DFA.Run(body.Input)
	if err != nil {
		var faErr *fa.Error
		if errors.As(err, &faErr) {
			writeResult(w, req, result.UnprocessableEntity(err.Error(), "run %q against %s: %s", body.Input, id, err.Error()))
			return
		}
		writeResult(w, req, result.InternalServerError("run %q against %s: %s", body.Input, id, err.Error()))
		return
	}

	writeResult(w, req, result.OK(matchResponse{Accepted: accepted}, "matched %q against %s: %v", body.Input, id, accepted))
}

func writeResult(w http.ResponseWriter, req *http.Request, r result.Result) {
	r.WriteResponse(w)
	r.Log(req)
}

// parseJSON decodes the request body as JSON into v, which must be a
// pointer.
func parseJSON(req *http.Request, v interface{}) error {
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return errors.New("request body is empty")
	}
	return json.Unmarshal(data, v)
}
