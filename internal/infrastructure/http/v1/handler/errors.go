package handler

import "errors"

var (
	ErrInvalidFeatureCollection = errors.New("request body should be a GeoJSON FeatureCollection")
	ErrBodyTooLarge             = errors.New("request body too large")
	ErrInvalidTileAddress       = errors.New("z, x and y should be integers")
	ErrTileRejected             = errors.New("tile was rejected")
	ErrLayerNotFound            = errors.New("layer not found")
	InternalServerError         = errors.New("the server encountered an error and could not process your request")
)
