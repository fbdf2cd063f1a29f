// AngelaMos | 2026
// handler_test.go

package billing

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookLivenessIsPlainText(t *testing.T) {
	svc := newTestService(newFakeProvider(), newFakeTenants(), &fakeNotifier{})
	handler := NewHandler(svc, slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/company/webhook", nil)
	rec := httptest.NewRecorder()
	handler.WebhookLiveness(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "webhook endpoint is live", rec.Body.String())
}
