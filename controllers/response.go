package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/services"
)

var exposeErrors bool

// ExposeErrorDetails echoes the underlying error as errorStack in error
// responses. Enable outside production only.
func ExposeErrorDetails(on bool) {
	exposeErrors = on
}

func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindInvalidOperation:
		return http.StatusBadRequest
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	body := gin.H{"error": services.MessageOf(err)}
	if exposeErrors {
		body["errorStack"] = err.Error()
	}
	c.JSON(statusFor(services.KindOf(err)), body)
}

func respond(c *gin.Context, status int, message string, data any) {
	body := gin.H{"message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, err error) {
	respondError(c, &services.Error{Kind: services.KindInvalidOperation, Message: "Invalid request body", Err: err})
}
