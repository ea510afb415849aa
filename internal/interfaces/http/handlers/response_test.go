package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(handler gin.HandlerFunc, method, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	engine := gin.New()
	engine.Handle(method, "/", handler)

	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	out := map[string]interface{}{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestRespondErrorMapsKinds(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", order.ErrOrderNotFound, http.StatusNotFound, "ORDER_NOT_FOUND"},
		{"conflict", order.ErrAlreadyPaid, http.StatusConflict, "ORDER_ALREADY_PAID"},
		{"wrapped", order.ErrInvalidCart.Wrap(errors.New("bad uuid")), http.StatusBadRequest, "INVALID_CART"},
		{"foreign error is hidden", errors.New("pq: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := serve(func(c *gin.Context) {
				respondError(c, logger.Discard(), tt.err)
			}, http.MethodGet, "")

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, body["code"])
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}

func TestDecimalBindingTags(t *testing.T) {
	RegisterValidators()

	type priced struct {
		Price decimal.Decimal  `json:"price" binding:"gt=0"`
		Rate  *decimal.Decimal `json:"rate" binding:"omitempty,gte=0.5,lte=5"`
	}
	handler := func(c *gin.Context) {
		var req priced
		if !bindJSON(c, &req) {
			return
		}
		respondOK(c, http.StatusOK, "ok", req)
	}

	w, _ := serve(handler, http.MethodPost, `{"price": 10.5, "rate": 4.5}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w, body := serve(handler, http.MethodPost, `{"price": 0}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", body["code"])
	assert.Equal(t, map[string]interface{}{"Price": "gt"}, body["details"])

	w, _ = serve(handler, http.MethodPost, `{"price": 1, "rate": 6}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUintParam(t *testing.T) {
	engine := gin.New()
	engine.GET("/orders/:id", func(c *gin.Context) {
		id, ok := uintParam(c, logger.Discard(), "id")
		if !ok {
			return
		}
		respondOK(c, http.StatusOK, "ok", id)
	})

	for path, status := range map[string]int{
		"/orders/12":  http.StatusOK,
		"/orders/0":   http.StatusBadRequest,
		"/orders/-1":  http.StatusBadRequest,
		"/orders/abc": http.StatusBadRequest,
	} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, status, w.Code, path)
	}
}
