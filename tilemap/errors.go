package tilemap

import "errors"

var (
	ErrUnknownActorType = errors.New("tilemap: unknown actor type")
	ErrDuplicateActorID = errors.New("tilemap: duplicate actor id")
	ErrUnknownLayer     = errors.New("tilemap: unknown object layer")
	ErrTileOutOfRange   = errors.New("tilemap: tile id outside every tileset")
	ErrUnknownEntry     = errors.New("tilemap: unknown entry")
	ErrBadLayerSize     = errors.New("tilemap: tile data does not match layer size")
	ErrActorNotFound    = errors.New("tilemap: actor not on this map")
	ErrBadActorID       = errors.New("tilemap: actor ids must be positive")
)
