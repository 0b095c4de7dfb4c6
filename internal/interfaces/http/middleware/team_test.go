package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kaizen/backend/internal/infrastructure/logger"
	"github.com/kaizen/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
)

func TestTeamScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	teams := router.Group("/teams/:team", TeamScope())
	teams.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, logger.GetTeamID(c.Request.Context()))
	})

	tests := []struct {
		team   string
		status int
	}{
		{"GR", http.StatusOK},
		{"QA2", http.StatusOK},
		{"gr", http.StatusBadRequest},
		{"G-R", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.team, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teams/"+tt.team+"/ping", nil))
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.team, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), dto.ErrCodeInvalidTeam)
			}
		})
	}
}
