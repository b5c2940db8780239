package dto

import "github.com/jaennil/guide_helper/backend/featurecache/internal/tile"

type LayerURI struct {
	Layer string `uri:"layer" validate:"required,max=64,excludesall=/\\."`
}

type TileURI struct {
	Layer string `uri:"layer" validate:"required,max=64,excludesall=/\\."`
	Z     int    `uri:"z" validate:"min=0,max=30"`
	X     int    `uri:"x" validate:"min=0"`
	Y     int    `uri:"y" validate:"min=0"`
}

func (u TileURI) Tile() tile.Tile {
	return tile.New(u.X, u.Y, u.Z)
}

type AddTileResponse struct {
	Tile           tile.Tile `json:"tile"`
	RefZoom        int       `json:"ref_zoom"`
	ReferenceTiles int       `json:"reference_tiles"`
}

type TilesResponse struct {
	Tile     tile.Tile   `json:"tile"`
	RefZoom  int         `json:"ref_zoom"`
	Complete bool        `json:"complete"`
	Tiles    []tile.Tile `json:"tiles"`
}

type LayersResponse struct {
	Layers []string `json:"layers"`
}
