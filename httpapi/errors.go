package httpapi

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"resolveit/attachment"
	"resolveit/auth"
	"resolveit/complaint"
	"resolveit/notification"
	"resolveit/staffapp"
)

// respondError maps domain sentinels onto status codes. Anything unmapped is
// a 500 with a generic body; the detail goes to the log only.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, err)
	case errors.Is(err, auth.ErrDuplicateAccount),
		errors.Is(err, staffapp.ErrPendingExists),
		errors.Is(err, staffapp.ErrNotPending),
		errors.Is(err, complaint.ErrAlreadyEscalated):
		fail(c, http.StatusConflict, err)
	case errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, complaint.ErrNotFound),
		errors.Is(err, notification.ErrNotFound),
		errors.Is(err, staffapp.ErrNotFound),
		errors.Is(err, attachment.ErrNotFound):
		fail(c, http.StatusNotFound, err)
	case errors.Is(err, complaint.ErrForbidden):
		fail(c, http.StatusForbidden, err)
	case errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrInvalidInput),
		errors.Is(err, complaint.ErrInvalidTransition),
		errors.Is(err, complaint.ErrClosed),
		errors.Is(err, complaint.ErrNotEscalatable),
		errors.Is(err, complaint.ErrNotReportable),
		errors.Is(err, complaint.ErrInvalidRequest),
		errors.Is(err, complaint.ErrValidation),
		errors.Is(err, staffapp.ErrAlreadyStaff),
		errors.Is(err, staffapp.ErrInvalidAnswers),
		errors.Is(err, attachment.ErrTooLarge),
		errors.Is(err, attachment.ErrBadFileType):
		fail(c, http.StatusBadRequest, err)
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}

func fail(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"message": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": msg})
}
