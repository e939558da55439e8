package requestid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorlane/shopcore/pkg/requestid"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(requestid.FromContext(r.Context())))
	})

	t.Run("generates an id when none supplied", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		requestid.Middleware(echo).ServeHTTP(rec, req)

		id := rec.Header().Get(requestid.Header)
		require.NotEmpty(t, id)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("reuses a valid client id", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestid.Header, "client-id-42")
		rec := httptest.NewRecorder()
		requestid.Middleware(echo).ServeHTTP(rec, req)

		assert.Equal(t, "client-id-42", rec.Header().Get(requestid.Header))
		assert.Equal(t, "client-id-42", rec.Body.String())
	})

	t.Run("replaces invalid client ids", func(t *testing.T) {
		t.Parallel()

		for _, bad := range []string{"has spaces", "semi;colon", strings.Repeat("x", 200)} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(requestid.Header, bad)
			rec := httptest.NewRecorder()
			requestid.Middleware(echo).ServeHTTP(rec, req)

			assert.NotEqual(t, bad, rec.Header().Get(requestid.Header))
		}
	})
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	assert.Empty(t, requestid.FromContext(t.Context()))

	ctx := requestid.WithContext(t.Context(), "abc")
	assert.Equal(t, "abc", requestid.FromContext(ctx))
}
