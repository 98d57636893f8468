// Package middle contains middleware for use with the refa HTTP server.
package middle

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dekarrin/refa/server/result"
	"github.com/dekarrin/refa/server/token"
)

type mwFunc http.HandlerFunc

func (sf mwFunc) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	sf(w, req)
}

// Middleware is a function that takes a handler and returns a new handler
// which wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthHandler is middleware that accepts a request, extracts the bearer
// token, and verifies it against the server's configured secret before
// passing the request on. Unlike the teacher's AuthHandler this has no user
// store to look a principal up in: the API recognizes exactly one
// authenticated principal, the holder of a valid token.
type AuthHandler struct {
	secret        []byte
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	tok, err := token.Get(req)
	if err == nil {
		err = token.Validate(tok, ah.secret)
	}
	if err != nil {
		r := result.Unauthorized("", err.Error())
		time.Sleep(ah.unauthedDelay)
		r.WriteResponse(w)
		r.Log(req)
		return
	}

	ah.next.ServeHTTP(w, req)
}

// RequireAuth returns Middleware that rejects any request not bearing a
// valid token signed with secret.
func RequireAuth(secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			secret:        secret,
			unauthedDelay: unauthDelay,
			next:          next,
		}
	}
}

// DontPanic returns a Middleware that performs a panic check as it exits. If
// the wrapped handler panics, it writes out an HTTP-500 with a generic
// message to the client and logs the details.
func DontPanic() Middleware {
	return func(next http.Handler) http.Handler {
		return mwFunc(func(w http.ResponseWriter, r *http.Request) {
			defer panicTo500(w, r)
			next.ServeHTTP(w, r)
		})
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) (panicVal interface{}) {
	if panicErr := recover(); panicErr != nil {
		r := result.InternalServerError(fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())))
		r.WriteResponse(w)
		r.Log(req)
		return true
	}
	return false
}
