package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"wayfarer/internal/config"
	handlers "wayfarer/internal/handler"
	"wayfarer/internal/middleware"
)

type testEnv struct {
	auth     *MockAuthService
	user     *MockUserService
	post     *MockPostService
	trip     *MockTripService
	wishlist *MockWishlistService
	upload   *MockUploadService
	store    *MockStorage
	handler  *handlers.Handlers
}

func newTestEnv() *testEnv {
	env := &testEnv{
		auth:     new(MockAuthService),
		user:     new(MockUserService),
		post:     new(MockPostService),
		trip:     new(MockTripService),
		wishlist: new(MockWishlistService),
		upload:   new(MockUploadService),
		store:    new(MockStorage),
	}

	env.handler = &handlers.Handlers{
		AuthService:     env.auth,
		UserService:     env.user,
		PostService:     env.post,
		TripService:     env.trip,
		WishlistService: env.wishlist,
		UploadService:   env.upload,
		Storage:         env.store,
		Cfg: &config.Config{
			JWTSecretKey:  "test-secret-key",
			ServerPort:    8080,
			MaxUploadSize: 1 << 20,
			JPEGQuality:   85,
		},
		Validate: validator.New(),
		Logger:   zerolog.Nop(),
	}

	return env
}

// protect runs a handler behind the auth gate so tests exercise the same path
// the router wires in production.
func (e *testEnv) protect(h http.HandlerFunc) http.Handler {
	return middleware.Auth(e.auth)(h)
}

// authorize stubs token validation and returns a header value for the request.
func (e *testEnv) authorize(userID string) string {
	e.auth.On("ValidateAccessToken", "access-"+userID).Return(userID, nil)
	return "Bearer access-" + userID
}

func assertJSONError(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	t.Helper()

	assert.Equal(t, expectedStatus, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var response map[string]string
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response["error"], expectedError)
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var response map[string]interface{}
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	assert.NoError(t, err)
	return response
}
