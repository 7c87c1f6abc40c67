package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/mamadbah2/buffalo/internal/repository"
	"github.com/mamadbah2/buffalo/internal/service/buffalos"
	"github.com/mamadbah2/buffalo/internal/service/forms"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"not found", fmt.Errorf("load buffalo 1: %w", repository.ErrNotFound), http.StatusNotFound, `{"error":"buffalo not found"}`},
		{"validation", &forms.ValidationError{Field: "price", Message: "is required"}, http.StatusBadRequest, `{"error":"price: is required","field":"price"}`},
		{"no draft", forms.ErrNoDraft, http.StatusNotFound, `{"error":"no draft open for this buffalo"}`},
		{"in flight", forms.ErrSubmitInFlight, http.StatusConflict, `{"error":"draft submission already in progress"}`},
		{"last row", forms.ErrLastRow, http.StatusBadRequest, ""},
		{"id space", buffalos.ErrIDSpaceExhausted, http.StatusServiceUnavailable, ""},
		{"store failure", fmt.Errorf("list buffalos: %w", errors.New("server selection timeout")), http.StatusBadGateway, `{"error":"store unavailable"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, zap.NewNop(), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, rec.Body.String())
			}
		})
	}
}
