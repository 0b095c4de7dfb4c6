package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kaizen/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// draftRoute mimics the draft save endpoint: it decodes the JSON body and
// echoes the title back.
func draftRoute(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), BodyLimit(limit))
	r.PUT("/teams/GR/reports/draft", func(c *gin.Context) {
		var body struct {
			Title   string `json:"title"`
			Summary string `json:"summary"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.String(http.StatusOK, body.Title)
	})
	return r
}

func draftBody(summaryLen int) string {
	b, _ := json.Marshal(map[string]string{
		"title":   "Shorter changeover",
		"summary": strings.Repeat("s", summaryLen),
	})
	return string(b)
}

func TestBodyLimit(t *testing.T) {
	tests := []struct {
		name       string
		limit      int64
		body       string
		chunked    bool
		wantStatus int
		wantBody   string
	}{
		{"draft within limit", 1024, draftBody(100), false, http.StatusOK, "Shorter changeover"},
		{"declared length over limit", 128, draftBody(500), false, http.StatusRequestEntityTooLarge, dto.ErrCodeTooLarge},
		{"undeclared length is capped while reading", 128, draftBody(500), true, http.StatusBadRequest, "too large"},
		{"zero disables the limit", 0, draftBody(8192), false, http.StatusOK, "Shorter changeover"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/teams/GR/reports/draft", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.chunked {
				req.ContentLength = -1
			}
			w := httptest.NewRecorder()
			draftRoute(tt.limit).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestBodyLimit_CarriesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/teams/GR/reports/draft", strings.NewReader(draftBody(500)))
	req.Header.Set(RequestIDHeader, "req-draft-1")
	w := httptest.NewRecorder()
	draftRoute(64).ServeHTTP(w, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-draft-1", resp.Error.RequestID)
}

func TestBodyLimit_IgnoresBodylessRequests(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(1))
	r.GET("/teams/GR/counters", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teams/GR/counters", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
