package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jaennil/guide_helper/backend/featurecache/internal/infrastructure/http/v1/dto"
)

func (h *Handler) Layers(c *gin.Context) {
	h.RespondWithJSON(c, http.StatusOK, "got layers", dto.LayersResponse{
		Layers: h.registry.IDs(),
	})
}

// DeleteLayer drops the cache instance of a layer. Tiles already written to
// an external backend stay there and become visible again on next use.
func (h *Handler) DeleteLayer(c *gin.Context) {
	var uri dto.LayerURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.RespondWithJSON(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err := h.validate.Struct(uri); err != nil {
		h.RespondWithJSON(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if !h.registry.Remove(uri.Layer) {
		h.RespondWithJSON(c, http.StatusNotFound, ErrLayerNotFound.Error(), nil)
		return
	}

	h.loggerFrom(c).Info("layer removed", "layer", uri.Layer)
	h.RespondWithJSON(c, http.StatusOK, "layer removed", nil)
}
