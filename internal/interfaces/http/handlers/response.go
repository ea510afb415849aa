// internal/interfaces/http/handlers/response.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
)

var errInvalidID = apperror.Validation("INVALID_ID", "Invalid id")

// respondOK writes the success envelope
func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"message": message,
		"data":    data,
	})
}

// respondError maps err to a status code and the error envelope. Errors
// without a kind are logged and hidden behind a generic message.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	appErr, ok := apperror.As(err)
	if !ok || appErr.Kind == apperror.KindInternal {
		log.WithError(err).WithFields(logrus.Fields{
			"request_id": middleware.GetRequestID(c),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
		}).Error("request failed")
		appErr = apperror.ErrInternal
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus(), gin.H{
		"error": appErr.Message,
		"code":  appErr.Code,
	})
}

// respondBindError reports a request body that failed binding or validation
func respondBindError(c *gin.Context, err error) {
	body := gin.H{
		"error": apperror.ErrInvalidRequest.Message,
		"code":  apperror.ErrInvalidRequest.Code,
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		body["details"] = fields
	} else {
		body["details"] = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, body)
}

// bindJSON binds the body into req, answering 400 on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}

// bindQuery binds query parameters into req, answering 400 on failure
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}

// uintParam parses a numeric path parameter
func uintParam(c *gin.Context, log logrus.FieldLogger, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		respondError(c, log, errInvalidID)
		return 0, false
	}
	return uint(id), true
}

// currentUser returns the authenticated user id, answering 401 when missing
func currentUser(c *gin.Context, log logrus.FieldLogger) (uint, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		respondError(c, log, apperror.ErrUnauthenticated)
		return 0, false
	}
	return userID, true
}
