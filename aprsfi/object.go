package aprsfi

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Object is one map object read from a source document. Every field is
// optional; absent fields are posted as null.
type Object struct {
	Name    *string
	Comment *string
	Symbol  *string
	Lat     *float64
	Lon     *float64
}

// rawObject mirrors Object with the coordinates left as nodes so that both
// numbers and quoted numbers are accepted.
type rawObject struct {
	Name    *string   `yaml:"name"`
	Comment *string   `yaml:"comment"`
	Symbol  *string   `yaml:"symbol"`
	Lat     yaml.Node `yaml:"lat"`
	Lon     yaml.Node `yaml:"lon"`
}

// UnmarshalYAML implements custom unmarshaling for Object.
func (o *Object) UnmarshalYAML(value *yaml.Node) error {
	var raw rawObject
	if err := value.Decode(&raw); err != nil {
		return err
	}

	lat, err := decodeCoordinate("lat", &raw.Lat)
	if err != nil {
		return err
	}
	lon, err := decodeCoordinate("lon", &raw.Lon)
	if err != nil {
		return err
	}

	*o = Object{
		Name:    raw.Name,
		Comment: raw.Comment,
		Symbol:  raw.Symbol,
		Lat:     lat,
		Lon:     lon,
	}
	return nil
}

func decodeCoordinate(field string, node *yaml.Node) (*float64, error) {
	// A zero Kind means the key was absent.
	if node.Kind == 0 || node.ShortTag() == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("line %d: %s must be a number", node.Line, field)
	}

	// Try the node as a number first, then as a numeric string.
	var f float64
	if err := node.Decode(&f); err != nil {
		f, err = strconv.ParseFloat(strings.TrimSpace(node.Value), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %s must be a number, got %q", node.Line, field, node.Value)
		}
	}
	// JSON has no encoding for these.
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, fmt.Errorf("line %d: %s must be finite, got %q", node.Line, field, node.Value)
	}
	return &f, nil
}

// DisplayName is the object's name, or "" when it has none.
func (o Object) DisplayName() string {
	if o.Name == nil {
		return ""
	}
	return *o.Name
}

type location struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type objectPayload struct {
	Type    string     `json:"type"`
	Name    *string    `json:"name"`
	Comment *string    `json:"comment"`
	Symbol  *string    `json:"symbol"`
	Locs    []location `json:"locs"`
}

func newObjectPayload(o Object) objectPayload {
	return objectPayload{
		Type:    "o",
		Name:    o.Name,
		Comment: o.Comment,
		Symbol:  o.Symbol,
		Locs:    []location{{Lat: o.Lat, Lng: o.Lon}},
	}
}
