// Package response writes the {success, data, ...} JSON envelope used by every endpoint.
package response

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/gin-gonic/gin"
)

type Localizer interface {
	Localize(acceptLanguage, messageID string) string
}

type Responder struct {
	loc Localizer
}

func NewResponder(loc Localizer) *Responder {
	return &Responder{loc: loc}
}

func (r *Responder) T(c *gin.Context, messageID string) string {
	if r.loc == nil {
		return messageID
	}
	return r.loc.Localize(c.GetHeader("Accept-Language"), messageID)
}

func (r *Responder) OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func (r *Responder) List(c *gin.Context, data interface{}, count int) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "count": count})
}

// Message answers a write with the affected entity and a localized message.
func (r *Responder) Message(c *gin.Context, status int, data interface{}, messageID string) {
	c.JSON(status, gin.H{"success": true, "data": data, "message": r.T(c, messageID)})
}

// Error answers with the status of err's kind. Internal causes are attached to
// the gin context for the access log and never written to the client.
func (r *Responder) Error(c *gin.Context, err error) {
	messageID := "internal_error"
	var appErr *apperror.Error
	if errors.As(err, &appErr) && appErr.MessageID != "" {
		messageID = appErr.MessageID
	}
	_ = c.Error(err)
	c.JSON(apperror.KindOf(err).HTTPStatus(), gin.H{"success": false, "error": r.T(c, messageID)})
}

// ParamID reads a positive integer path parameter. Ids are 32-bit serials in
// the store, so anything wider is rejected as invalid_id.
func ParamID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 32)
	if err != nil || id <= 0 {
		return 0, apperror.Validation("invalid_id")
	}
	return id, nil
}
