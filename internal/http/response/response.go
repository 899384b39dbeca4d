package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recallerhq/recaller-backend/internal/platform/apierr"
)

type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// RespondError maps the error onto its HTTP status via apierr.From and
// writes the envelope. Internal errors keep their detail out of the body.
func RespondError(c *gin.Context, err error) {
	ae := apierr.From(err)
	message := ae.Error()
	if ae.Status >= http.StatusInternalServerError {
		message = "internal server error"
	}
	c.AbortWithStatusJSON(ae.Status, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: ae.Code, Message: message},
	})
}

// RespondValidationError is for gin binding failures on request bodies.
func RespondValidationError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: "validation_failed", Message: err.Error()},
	})
}
