package middle

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/refa/server/token"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func Test_RequireAuth_allowsValidToken(t *testing.T) {
	assert := assert.New(t)

	secret := []byte("a-secret-at-least-32-bytes-long!!!!")
	tok, err := token.Issue(secret)
	if !assert.NoError(err) {
		return
	}

	mw := RequireAuth(secret, 0)
	wrapped := mw(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	assert.Equal(http.StatusOK, rec.Code)
}

func Test_RequireAuth_rejectsMissingToken(t *testing.T) {
	assert := assert.New(t)

	secret := []byte("a-secret-at-least-32-bytes-long!!!!")
	mw := RequireAuth(secret, 0)
	wrapped := mw(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	assert.Equal(http.StatusUnauthorized, rec.Code)
	assert.Contains(rec.Header().Get("WWW-Authenticate"), "Bearer")
}

func Test_RequireAuth_rejectsTokenSignedWithWrongSecret(t *testing.T) {
	assert := assert.New(t)

	secret := []byte("a-secret-at-least-32-bytes-long!!!!")
	otherSecret := []byte("a-different-secret-32-bytes-long!!!")

	tok, err := token.Issue(otherSecret)
	if !assert.NoError(err) {
		return
	}

	mw := RequireAuth(secret, 0)
	wrapped := mw(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	assert.Equal(http.StatusUnauthorized, rec.Code)
}

func Test_RequireAuth_appliesUnauthedDelay(t *testing.T) {
	assert := assert.New(t)

	secret := []byte("a-secret-at-least-32-bytes-long!!!!")
	delay := 20 * time.Millisecond

	mw := RequireAuth(secret, delay)
	wrapped := mw(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	start := time.Now()
	wrapped.ServeHTTP(rec, req)
	elapsed := time.Since(start)

	assert.GreaterOrEqual(elapsed, delay)
}

func Test_DontPanic_recoversAndWrites500(t *testing.T) {
	assert := assert.New(t)

	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	wrapped := DontPanic()(panicky)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	assert.NotPanics(func() {
		wrapped.ServeHTTP(rec, req)
	})

	assert.Equal(http.StatusInternalServerError, rec.Code)
}

func Test_DontPanic_passesThroughNormalResponse(t *testing.T) {
	assert := assert.New(t)

	wrapped := DontPanic()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	assert.Equal(http.StatusOK, rec.Code)
}
