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

type seedBody struct {
	Team   string `json:"team" binding:"required,team_code"`
	Period string `json:"period" binding:"required,period_key"`
	Seed   string `json:"seed" binding:"required,max=40"`
}

func newValidationRouter(t *testing.T) *gin.Engine {
	t.Helper()
	require.NoError(t, SetupValidator())
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID())
	router.POST("/seed", func(c *gin.Context) {
		var req seedBody
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleBindError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req))
	})
	return router
}

func post(router *gin.Engine, body string) (*httptest.ResponseRecorder, dto.Response) {
	req := httptest.NewRequest(http.MethodPost, "/seed", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp dto.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestValidation_CustomTags(t *testing.T) {
	router := newValidationRouter(t)

	w, _ := post(router, `{"team":"GR","period":"2507","seed":"GR-2507-0360"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp := post(router, `{"team":"g-r","period":"2513","seed":"x"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)

	fields := map[string]string{}
	for _, d := range resp.Error.Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "Must be an upper-case team code such as GR", fields["team"])
	assert.Equal(t, "Must be a YYMM period such as 2507", fields["period"])
	assert.NotContains(t, fields, "seed")
}

func TestValidation_MissingFields(t *testing.T) {
	router := newValidationRouter(t)

	w, resp := post(router, `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Len(t, resp.Error.Details, 3)
	assert.Equal(t, "This field is required", resp.Error.Details[0].Message)
}

func TestHandleBindError_MalformedJSON(t *testing.T) {
	router := newValidationRouter(t)

	w, resp := post(router, `{"team":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}
