package tilemap

import (
	"fmt"
	"strings"
	"testing"
	"testing/fstest"
)

const terrainTileset = `{"firstgid":1,"name":"terrain","image":"terrain.png","tilewidth":32,"tileheight":32,"columns":4,"tilecount":16}`

func zeros(n int) string {
	return strings.TrimSuffix(strings.Repeat("0,", n), ",")
}

func tileLayerJSON(name string, w, h int, data string, props string) string {
	return fmt.Sprintf(`{"id":1,"name":%q,"type":"tilelayer","width":%d,"height":%d,"data":[%s],"properties":[%s]}`,
		name, w, h, data, props)
}

func objectLayerJSON(name string, objects ...string) string {
	return fmt.Sprintf(`{"id":2,"name":%q,"type":"objectgroup","objects":[%s]}`, name, strings.Join(objects, ","))
}

func objectJSON(id int, kind string, x, y, w, h float64, props ...string) string {
	return fmt.Sprintf(`{"id":%d,"type":%q,"x":%g,"y":%g,"width":%g,"height":%g,"properties":[%s]}`,
		id, kind, x, y, w, h, strings.Join(props, ","))
}

func prop(name string, value any) string {
	switch v := value.(type) {
	case string:
		return fmt.Sprintf(`{"name":%q,"type":"string","value":%q}`, name, v)
	case int:
		return fmt.Sprintf(`{"name":%q,"type":"int","value":%d}`, name, v)
	default:
		return fmt.Sprintf(`{"name":%q,"type":"bool","value":%v}`, name, v)
	}
}

func mapJSON(tilesets string, layers ...string) string {
	return fmt.Sprintf(`{"width":10,"height":10,"tilewidth":32,"tileheight":32,"orientation":"orthogonal","tilesets":[%s],"layers":[%s]}`,
		tilesets, strings.Join(layers, ","))
}

func loadFixture(t *testing.T, doc string) *Map {
	t.Helper()
	m, err := loadFixtureErr(doc)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return m
}

func loadFixtureErr(doc string) (*Map, error) {
	fsys := fstest.MapFS{"maps/test.json": &fstest.MapFile{Data: []byte(doc)}}
	return NewLoader(fsys).Load("maps/test")
}
