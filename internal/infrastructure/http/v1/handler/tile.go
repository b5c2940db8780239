package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jaennil/guide_helper/backend/featurecache/internal/infrastructure/http/v1/dto"
	"github.com/jaennil/guide_helper/backend/featurecache/internal/tile"
	"github.com/paulmach/orb/geojson"
)

const geoJSONContentType = "application/geo+json"

// bindTile parses and validates the tile address of the request. It writes a
// 400 response and returns false when the address is unusable.
func (h *Handler) bindTile(c *gin.Context) (dto.TileURI, tile.Tile, bool) {
	var uri dto.TileURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.RespondWithJSON(c, http.StatusBadRequest, ErrInvalidTileAddress.Error(), nil)
		return uri, tile.Tile{}, false
	}
	if err := h.validate.Struct(uri); err != nil {
		h.RespondWithJSON(c, http.StatusBadRequest, err.Error(), nil)
		return uri, tile.Tile{}, false
	}

	t := uri.Tile()
	if !t.Valid {
		h.RespondWithJSON(c, http.StatusBadRequest, "tile "+t.String()+" is outside the grid", nil)
		return uri, tile.Tile{}, false
	}
	return uri, t, true
}

func (h *Handler) AddTile(c *gin.Context) {
	l := h.loggerFrom(c)

	uri, t, ok := h.bindTile(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.RespondWithJSON(c, http.StatusRequestEntityTooLarge, ErrBodyTooLarge.Error(), nil)
			return
		}
		l.Error("failed to read request body", "error", err)
		h.RespondWithInternalServerError(c)
		return
	}
	if len(body) == 0 {
		h.RespondWithJSON(c, http.StatusBadRequest, ErrInvalidFeatureCollection.Error(), nil)
		return
	}

	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		l.Warn("invalid feature collection", "layer", uri.Layer, "tile", t.String(), "error", err)
		h.RespondWithJSON(c, http.StatusBadRequest, ErrInvalidFeatureCollection.Error(), nil)
		return
	}

	uc := h.registry.Get(uri.Layer)
	count, err := uc.SplitCount(t)
	if err != nil {
		h.RespondWithJSON(c, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}

	if !uc.Add(c.Request.Context(), t, fc) {
		h.RespondWithJSON(c, http.StatusUnprocessableEntity, ErrTileRejected.Error(), dto.AddTileResponse{
			Tile:    t,
			RefZoom: uc.RefZoom(),
		})
		return
	}

	l.Info("tile added", "layer", uri.Layer, "tile", t.String(), "features", len(fc.Features), "reference_tiles", count)

	h.RespondWithJSON(c, http.StatusOK, "tile added", dto.AddTileResponse{
		Tile:           t,
		RefZoom:        uc.RefZoom(),
		ReferenceTiles: count,
	})
}

// GetTile always answers with a FeatureCollection; it is empty when the
// cache cannot cover the tile.
func (h *Handler) GetTile(c *gin.Context) {
	l := h.loggerFrom(c)

	uri, t, ok := h.bindTile(c)
	if !ok {
		return
	}

	fc := h.registry.View(uri.Layer).Get(c.Request.Context(), t)

	data, err := fc.MarshalJSON()
	if err != nil {
		l.Error("failed to encode feature collection", "layer", uri.Layer, "tile", t.String(), "error", err)
		h.RespondWithInternalServerError(c)
		return
	}

	c.Data(http.StatusOK, geoJSONContentType, data)
}

func (h *Handler) CoverTiles(c *gin.Context) {
	uri, t, ok := h.bindTile(c)
	if !ok {
		return
	}

	uc := h.registry.View(uri.Layer)
	tiles := uc.CoverTiles(c.Request.Context(), t)

	h.RespondWithJSON(c, http.StatusOK, "got cover tiles", dto.TilesResponse{
		Tile:     t,
		RefZoom:  uc.RefZoom(),
		Complete: len(tiles) > 0,
		Tiles:    tiles,
	})
}

func (h *Handler) ReferenceTiles(c *gin.Context) {
	uri, t, ok := h.bindTile(c)
	if !ok {
		return
	}

	uc := h.registry.View(uri.Layer)
	tiles, err := uc.ReferenceTiles(t)
	if err != nil {
		h.RespondWithJSON(c, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}

	h.RespondWithJSON(c, http.StatusOK, "got reference tiles", dto.TilesResponse{
		Tile:    t,
		RefZoom: uc.RefZoom(),
		Tiles:   tiles,
	})
}
