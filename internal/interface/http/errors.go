package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-engagement/internal/domain/apperror"
	"github.com/oksasatya/blog-engagement/pkg/response"
	"github.com/oksasatya/blog-engagement/pkg/validation"
)

// writeError renders err through the response envelope. Internal causes are
// logged and never sent to the client.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	kind := apperror.KindOf(err)
	if kind == apperror.Internal && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	response.Error[any](c, kind.HTTPStatus(), apperror.MessageOf(err), kind.String())
}

func writeBindError(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

// idParam returns the :name path parameter when it is a UUID. Anything else
// cannot address a stored record and is answered with notFound.
func idParam(c *gin.Context, name string, notFound error, logger *logrus.Logger) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		writeError(c, logger, notFound)
		return "", false
	}
	return id, true
}
