package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kaizen/backend/internal/domain/numbering"
	"github.com/kaizen/backend/internal/infrastructure/logger"
	"github.com/kaizen/backend/internal/interfaces/http/dto"
)

// TeamScope rejects requests whose :team path segment is not a valid team
// code and tags the request context with the team for logging
func TeamScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		team := c.Param("team")
		if _, err := numbering.ParseTeamCode(team); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				numbering.CodeInvalidTeam,
				numbering.ErrInvalidTeam.Message,
				GetRequestID(c),
			))
			return
		}
		c.Request = c.Request.WithContext(logger.WithTeamID(c.Request.Context(), team))
		c.Next()
	}
}
