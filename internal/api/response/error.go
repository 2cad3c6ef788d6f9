package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error maps a sentinel error to the HTTP status reported for it.
type Error struct {
	Target error
	Code   int
}

// Status returns the code of the first mapping matching err, or 500.
func Status(err error, mappings []Error) int {
	for _, m := range mappings {
		if errors.Is(err, m.Target) {
			return m.Code
		}
	}
	return http.StatusInternalServerError
}

// FailWith writes err using the first matching mapping. Unmapped errors are
// reported as internal errors without their details.
func FailWith(c *gin.Context, err error, mappings []Error) {
	code := Status(err, mappings)
	message := err.Error()
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		message = http.StatusText(code)
	}
	ErrorResponse(c, code, message)
}
