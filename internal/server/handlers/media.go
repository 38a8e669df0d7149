package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ryansh/mediarater/internal/assets"
	"github.com/ryansh/mediarater/internal/database"
	"github.com/ryansh/mediarater/internal/mediaform"
)

// AddMediaPage renders an empty media form
func (h *Handlers) AddMediaPage(c *gin.Context) {
	tags, err := h.store.ListTags()
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "edit_media.tmpl", gin.H{
		"tags": tags,
	})
}

// AddMedia creates a media item with its children and tags in one submit
func (h *Handlers) AddMedia(c *gin.Context) {
	media := &database.Media{}
	if err := h.submitMedia(c, media); err != nil {
		h.renderError(c, err)
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusCreated, gin.H{"media": media})
		return
	}
	c.Redirect(http.StatusFound, "/media/"+strconv.FormatUint(uint64(media.ID), 10))
}

// EditMediaPage renders the form pre-filled with an existing item
func (h *Handlers) EditMediaPage(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.renderError(c, err)
		return
	}

	media, err := h.store.GetMedia(id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	tags, err := h.store.ListTags()
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.render(c, http.StatusOK, "edit_media.tmpl", gin.H{
		"media": media,
		"tags":  tags,
	})
}

// EditMedia updates a media item. The whole submission is validated before
// any write; children are replaced wholesale.
func (h *Handlers) EditMedia(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.renderError(c, err)
		return
	}

	media, err := h.store.GetMedia(id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	if err := h.submitMedia(c, media); err != nil {
		h.renderError(c, err)
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"media": media})
		return
	}
	c.Redirect(http.StatusFound, "/media/"+c.Param("id"))
}

// DeleteMedia removes an item; children and tag associations cascade away
// with it
func (h *Handlers) DeleteMedia(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.renderError(c, err)
		return
	}

	media, err := h.store.GetMedia(id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	if err := h.store.DeleteMedia(id); err != nil {
		h.renderError(c, err)
		return
	}

	h.assets.Remove(media.PosterImg)
	h.assets.Remove(media.BannerImg)

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"message": "media deleted"})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// submitMedia runs one logical update end to end: validate the whole
// payload, store any uploaded images, then persist media + children + tags
// in a single transaction. Nothing is written when validation fails.
func (h *Handlers) submitMedia(c *gin.Context, media *database.Media) error {
	var input *mediaform.MediaInput
	var err error

	if isJSONRequest(c) {
		input, err = mediaform.ParseStructured(c.Request.Body)
	} else {
		if err := parseForm(c); err != nil {
			return err
		}
		input, err = mediaform.Parse(c.Request.PostForm)
	}
	if err != nil {
		return err
	}

	media.MediaType = input.MediaType
	media.Title = input.Title
	media.Creator = input.Creator
	media.Years = input.Years
	media.OfficialRating = input.OfficialRating

	oldPoster, oldBanner := media.PosterImg, media.BannerImg
	newPoster, err := h.saveUpload(c, "poster_img", assets.KindPoster)
	if err != nil {
		return err
	}
	newBanner, err := h.saveUpload(c, "banner_img", assets.KindBanner)
	if err != nil {
		h.assets.Remove(newPoster)
		return err
	}
	if newPoster != "" {
		media.PosterImg = newPoster
	}
	if newBanner != "" {
		media.BannerImg = newBanner
	}

	if err := h.store.SaveMedia(media, input.Seasons, input.Tracks, input.TagIDs); err != nil {
		// Orphaned uploads are removed when the transaction rolls back
		h.assets.Remove(newPoster)
		h.assets.Remove(newBanner)
		return err
	}

	if newPoster != "" && oldPoster != "" {
		h.assets.Remove(oldPoster)
	}
	if newBanner != "" && oldBanner != "" {
		h.assets.Remove(oldBanner)
	}
	return nil
}

// saveUpload stores an optional image field, returning "" when the field was
// not submitted
func (h *Handlers) saveUpload(c *gin.Context, field string, kind assets.Kind) (string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", nil
	}
	return h.assets.Save(kind, header)
}

func isJSONRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "application/json")
}
