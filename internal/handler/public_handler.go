package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/campaignsite/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

type publicGalleryItem struct {
	service.Item
	DescriptionHTML string `json:"descriptionHtml"`
}

// ShowGallery returns a category's items for the public site, with
// descriptions rendered from markdown and sanitized. ?featured=true limits
// the result to featured items.
func (a *API) ShowGallery(c *gin.Context) {
	category, err := service.ParseCategory(c.Param("category"))
	if err != nil {
		respondError(c, http.StatusNotFound, "unknown gallery")
		return
	}

	featuredOnly, _ := strconv.ParseBool(c.Query("featured"))

	items := a.library.Items(category)
	result := make([]publicGalleryItem, 0, len(items))
	for _, item := range items {
		if featuredOnly && !item.Featured {
			continue
		}
		result = append(result, publicGalleryItem{
			Item:            item,
			DescriptionHTML: renderMarkdown(item.Description),
		})
	}

	c.JSON(http.StatusOK, gin.H{"category": category, "items": result})
}

func renderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(source), &buf); err != nil {
		return ""
	}
	return sanitizer.Sanitize(buf.String())
}
