package sns

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/live-redirect-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const publishResponse = `<PublishResponse xmlns="http://sns.amazonaws.com/doc/2010-03-31/">
  <PublishResult><MessageId>msg-1</MessageId></PublishResult>
  <ResponseMetadata><RequestId>req-1</RequestId></ResponseMetadata>
</PublishResponse>`

func TestPublish_TruncatesSubject(t *testing.T) {
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = map[string]string{
			"Action":   r.PostForm.Get("Action"),
			"TopicArn": r.PostForm.Get("TopicArn"),
			"Subject":  r.PostForm.Get("Subject"),
			"Message":  r.PostForm.Get("Message"),
		}
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(publishResponse))
	}))
	defer srv.Close()

	cfg := &config.Config{
		SNSRegion:      "us-east-1",
		SNSTopicARN:    "arn:aws:sns:us-east-1:000000000000:live-redirect",
		AWSEndpointURL: srv.URL,
		AWSAccessKeyID: "test",
		AWSSecretKey:   "test",
	}
	p, err := NewPublisher(context.Background(), cfg)
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), strings.Repeat("s", 150), "live_redirect_cache: deleted=2 kept=3\n"))

	assert.Equal(t, "Publish", form["Action"])
	assert.Equal(t, cfg.SNSTopicARN, form["TopicArn"])
	assert.Len(t, form["Subject"], 100)
	assert.Equal(t, "live_redirect_cache: deleted=2 kept=3\n", form["Message"])
}
