// Package controllers adapts HTTP requests onto app/services and renders
// the JSON envelope.
package controllers

import (
	"errors"
	"net/http"

	"github.com/aircon-store/storefront/app/services"
	"github.com/aircon-store/storefront/pkg/ctx"
	"github.com/aircon-store/storefront/pkg/logger"
	"github.com/aircon-store/storefront/pkg/response"
)

// fail renders err with the status its kind maps to.
func fail(c *ctx.Context, err error) {
	var (
		verr *services.ValidationError
		uerr *services.UploadRejectedError
	)
	switch {
	case errors.As(err, &verr):
		c.ValidationError(verr.Message, verr.Fields)
	case errors.As(err, &uerr):
		c.Error(http.StatusBadRequest, uerr.Reason)
	case errors.Is(err, services.ErrNotFound):
		c.NotFound(notFoundMessage(err))
	case errors.Is(err, services.ErrUnauthorized):
		c.Unauthorized()
	default:
		logger.WithCtx(c.Context()).Error("request failed",
			"method", c.R.Method,
			"path", c.R.URL.Path,
			"error", err,
		)
		c.Error(http.StatusInternalServerError, err.Error())
	}
}

func notFoundMessage(err error) string {
	if msg := err.Error(); msg != services.ErrNotFound.Error() {
		return msg
	}
	return "Not found"
}

func envelope(status int, message string, data interface{}) response.Envelope {
	return response.Envelope{Status: status, Message: message, Data: data}
}
