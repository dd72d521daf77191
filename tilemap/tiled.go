package tilemap

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Tiled JSON export (.json / .tmj). Only the fields the engine reads are
// declared.

type tiledMap struct {
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	TileWidth  int             `json:"tilewidth"`
	TileHeight int             `json:"tileheight"`
	Infinite   bool            `json:"infinite"`
	Layers     []tiledLayer    `json:"layers"`
	Tilesets   []tiledTileset  `json:"tilesets"`
	Properties []tiledProperty `json:"properties,omitempty"`
}

type tiledLayer struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	Data        json.RawMessage `json:"data,omitempty"`
	Encoding    string          `json:"encoding,omitempty"`
	Compression string          `json:"compression,omitempty"`
	Objects     []tiledObject   `json:"objects,omitempty"`
	Layers      []tiledLayer    `json:"layers,omitempty"`
	Properties  []tiledProperty `json:"properties,omitempty"`
	Visible     *bool           `json:"visible,omitempty"`
}

type tiledObject struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Class      string          `json:"class"`
	X          float64         `json:"x"`
	Y          float64         `json:"y"`
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	GID        uint32          `json:"gid,omitempty"`
	Properties []tiledProperty `json:"properties,omitempty"`
}

type tiledTileset struct {
	FirstGID   int    `json:"firstgid"`
	Source     string `json:"source,omitempty"`
	Name       string `json:"name,omitempty"`
	TileWidth  int    `json:"tilewidth,omitempty"`
	TileHeight int    `json:"tileheight,omitempty"`
	TileCount  int    `json:"tilecount,omitempty"`
	Columns    int    `json:"columns,omitempty"`
	Image      string `json:"image,omitempty"`
	Margin     int    `json:"margin,omitempty"`
	Spacing    int    `json:"spacing,omitempty"`
}

type tiledProperty struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

func (l tiledLayer) visible() bool {
	return l.Visible == nil || *l.Visible
}

func (o tiledObject) kind() string {
	if o.Type != "" {
		return o.Type
	}
	return o.Class
}

func toProperties(props []tiledProperty) Properties {
	out := make(Properties, len(props))
	for _, p := range props {
		out[p.Name] = propertyString(p.Value)
	}
	return out
}

// decodeTiles returns the cleaned GIDs of a tile layer, accepting both the
// CSV (JSON array) and base64 encodings.
func decodeTiles(l tiledLayer) ([]int, error) {
	if len(l.Data) == 0 {
		return nil, nil
	}
	var raw []uint32
	switch l.Encoding {
	case "", "csv":
		if err := json.Unmarshal(l.Data, &raw); err != nil {
			return nil, fmt.Errorf("decode tile data: %w", err)
		}
	case "base64":
		var s string
		if err := json.Unmarshal(l.Data, &s); err != nil {
			return nil, fmt.Errorf("decode tile data: %w", err)
		}
		b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("decode tile data: %w", err)
		}
		if b, err = decompress(b, l.Compression); err != nil {
			return nil, fmt.Errorf("decode tile data: %w", err)
		}
		if len(b)%4 != 0 {
			return nil, fmt.Errorf("decode tile data: %d bytes is not a whole number of tiles", len(b))
		}
		raw = make([]uint32, len(b)/4)
		for i := range raw {
			raw[i] = binary.LittleEndian.Uint32(b[i*4:])
		}
	default:
		return nil, fmt.Errorf("decode tile data: unsupported encoding %q", l.Encoding)
	}
	tiles := make([]int, len(raw))
	for i, gid := range raw {
		tiles[i] = CleanGID(gid)
	}
	return tiles, nil
}

func decompress(b []byte, compression string) ([]byte, error) {
	var r io.ReadCloser
	var err error
	switch compression {
	case "":
		return b, nil
	case "zlib":
		r, err = zlib.NewReader(bytes.NewReader(b))
	case "gzip":
		r, err = gzip.NewReader(bytes.NewReader(b))
	default:
		return nil, fmt.Errorf("unsupported compression %q", compression)
	}
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
