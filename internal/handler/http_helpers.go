package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/campaignsite/internal/service"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseIDParam(c *gin.Context, key string) (int64, error) {
	raw := c.Param(key)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return id, nil
}

// editorFor resolves the :category route parameter to its editor. It writes
// the error response itself when the category is unknown.
func (a *API) editorFor(c *gin.Context) (*service.GalleryEditor, bool) {
	category, err := service.ParseCategory(c.Param("category"))
	if err != nil {
		respondError(c, http.StatusNotFound, "unknown gallery")
		return nil, false
	}
	return a.editors[category], true
}
