package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"github.com/ryansh/mediarater/internal/apperr"
	"github.com/ryansh/mediarater/internal/assets"
	"github.com/ryansh/mediarater/internal/auth"
	"github.com/ryansh/mediarater/internal/catalog"
	"github.com/ryansh/mediarater/internal/database"
	"github.com/ryansh/mediarater/internal/logger"
)

// maxFormMemory bounds in-memory buffering of multipart submissions
const maxFormMemory = 32 << 20

// Handlers owns the HTTP surface of the catalog
type Handlers struct {
	store   *database.Store
	catalog *catalog.Service
	assets  *assets.Manager
	log     hclog.Logger
}

// New creates the handler set
func New(store *database.Store, catalogSvc *catalog.Service, assetMgr *assets.Manager) *Handlers {
	return &Handlers{
		store:   store,
		catalog: catalogSvc,
		assets:  assetMgr,
		log:     logger.Named("http"),
	}
}

// Health reports service liveness
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "mediarater",
	})
}

// render negotiates between the HTML templates and a JSON representation of
// the same view data
func (h *Handlers) render(c *gin.Context, status int, template string, data gin.H) {
	if wantsJSON(c) {
		c.JSON(status, data)
		return
	}
	data["authenticated"] = auth.IsAuthenticated(c)
	c.HTML(status, template, data)
}

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

// renderError maps the error taxonomy onto responses: NotFound pages,
// re-rendered forms for validation failures, generic failure pages for
// storage constraint violations
func (h *Handlers) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperr.IsNotFound(err):
		status = http.StatusNotFound
	case apperr.IsValidation(err):
		status = http.StatusBadRequest
	case apperr.IsAuth(err):
		status = http.StatusUnauthorized
	case apperr.IsConstraint(err):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.log.Error("request failed", "path", c.Request.URL.Path, "error", err)
	} else {
		h.log.Debug("request rejected", "path", c.Request.URL.Path, "error", err)
	}

	h.render(c, status, "error.tmpl", gin.H{
		"error": apperr.Message(err),
	})
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apperr.NotFound("no such media")
	}
	return uint(id), nil
}

// parseForm populates PostForm for both urlencoded and multipart submissions
func parseForm(c *gin.Context) error {
	err := c.Request.ParseMultipartForm(maxFormMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return apperr.Wrap(apperr.ErrorTypeValidation, "malformed form submission", err)
	}
	return nil
}
