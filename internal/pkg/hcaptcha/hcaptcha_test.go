package hcaptcha

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("response") == "good" && r.PostForm.Get("secret") == "s" {
			_, _ = w.Write([]byte(`{"success":true}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	}))
	defer srv.Close()

	ok, err := verify(srv.URL, "s", "good")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = verify(srv.URL, "s", "bad")
	assert.False(t, ok)
	assert.EqualError(t, err, "hCaptcha validation failed: invalid-input-response")

	_, err = verify(srv.URL, "s", "")
	assert.Error(t, err)

	_, err = verify(srv.URL, "", "good")
	assert.Error(t, err)
}
