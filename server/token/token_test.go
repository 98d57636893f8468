package token

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Issue_and_Validate_roundTrip(t *testing.T) {
	assert := assert.New(t)

	secret := []byte("test-secret-at-least-32-bytes-long!!")

	tok, err := Issue(secret)
	if !assert.NoError(err) {
		return
	}
	assert.NotEmpty(tok)

	assert.NoError(Validate(tok, secret))
}

func Test_Validate_wrongSecretFails(t *testing.T) {
	assert := assert.New(t)

	tok, err := Issue([]byte("correct-secret-value-32-bytes-long!"))
	if !assert.NoError(err) {
		return
	}

	assert.Error(Validate(tok, []byte("wrong-secret-value-32-bytes-long!!!")))
}

func Test_Validate_malformedTokenFails(t *testing.T) {
	assert := assert.New(t)

	assert.Error(Validate("not.a.jwt", []byte("some-secret")))
}

func Test_Get_extractsBearerToken(t *testing.T) {
	assert := assert.New(t)

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")

	tok, err := Get(req)
	assert.NoError(err)
	assert.Equal("abc.def.ghi", tok)
}

func Test_Get_missingHeaderFails(t *testing.T) {
	assert := assert.New(t)

	req, _ := http.NewRequest(http.MethodGet, "/", nil)

	_, err := Get(req)
	assert.Error(err)
}

func Test_Get_nonBearerSchemeFails(t *testing.T) {
	assert := assert.New(t)

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	_, err := Get(req)
	assert.Error(err)
}
