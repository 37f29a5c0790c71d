package websub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe_PostsForm(t *testing.T) {
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		form = map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewHubClient(srv.URL, "https://api.example.com/websub-callback", "s3cret", srv.Client())
	status, err := c.Subscribe(context.Background(), "UC123")
	require.NoError(t, err)

	assert.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, "subscribe", form["hub.mode"])
	assert.Equal(t, "https://www.youtube.com/xml/feeds/videos.xml?channel_id=UC123", form["hub.topic"])
	assert.Equal(t, "https://api.example.com/websub-callback", form["hub.callback"])
	assert.Equal(t, "async", form["hub.verify"])
	assert.Equal(t, "s3cret", form["hub.secret"])
}

func TestSubscribe_NoSecretOmitsField(t *testing.T) {
	var hasSecret bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		_, hasSecret = r.PostForm["hub.secret"]
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	status, err := NewHubClient(srv.URL, "cb", "", srv.Client()).Subscribe(context.Background(), "UC1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.False(t, hasSecret)
}

func TestSubscribe_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewHubClient(srv.URL, "cb", "", nil).Subscribe(context.Background(), "UC1")
	assert.Error(t, err)
}

func TestVerifySignature(t *testing.T) {
	body := []byte("<feed/>")
	sig := Sign("key", body)

	assert.True(t, VerifySignature("key", body, sig))
	assert.False(t, VerifySignature("other", body, sig))
	assert.False(t, VerifySignature("key", []byte("<feed></feed>"), sig))
	assert.False(t, VerifySignature("key", body, "sha256="+sig[5:]))
	assert.False(t, VerifySignature("key", body, "sha1=zz"))
	assert.False(t, VerifySignature("key", body, ""))
}
