package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"owl-league/packages/core/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.ErrAlreadyRecorded, http.StatusConflict},
		{fmt.Errorf("%w: week full", services.ErrPairingsExist), http.StatusConflict},
		{services.ErrInvalidKFactor, http.StatusBadRequest},
		{services.ErrWrongWeekPassword, http.StatusUnauthorized},
		{services.ErrMatchNotFound, http.StatusNotFound},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err, "boom")
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
