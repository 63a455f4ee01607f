package docs

import (
	"net/http"

	"codeberg.org/techcorp/supportbot/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/swaggo/swag"

	_ "codeberg.org/techcorp/supportbot/docs" // registers the swagger document
)

// serves the generated swagger document
func SwaggerHandler(c *gin.Context) {
	doc, err := swag.ReadDoc()
	if err != nil {
		errors.InternalError(c, "failed to render API documentation", err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
}
