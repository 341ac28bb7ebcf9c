package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-itemstore/item"
	"github.com/goliatone/go-itemstore/query"
)

const maxBodyBytes = 1 << 20

type handlers struct {
	items ItemService
	stats StatsService
}

func (h *handlers) listItems(c *gin.Context) {
	params := query.ParseParams(c.Query("q"), c.Query("page"), c.Query("limit"))

	items, err := h.items.List(c.Request.Context(), params)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *handlers) getItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.Error(item.NewNotFoundError(0))
		return
	}

	it, err := h.items.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *handlers) createItem(c *gin.Context) {
	var payload any
	dec := json.NewDecoder(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		_ = c.Error(item.NewValidationError("", err))
		return
	}

	created, err := h.items.Create(c.Request.Context(), payload)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) getStats(c *gin.Context) {
	agg, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, agg)
}
