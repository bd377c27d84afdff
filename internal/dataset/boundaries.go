package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Feature is one boundary record. Geometry is kept opaque: only the renderer
// projects it.
type Feature struct {
	ID         string
	Properties map[string]any
	Geometry   json.RawMessage
}

// Boundaries is the geographic collection, passed through to the renderer unmodified.
type Boundaries struct {
	Features []Feature
}

// RegionKeys is the ordered list of property names that may carry a region name.
// Boundary files in the wild disagree on the key, so the first present wins.
type RegionKeys []string

// DefaultRegionKeys is the lookup order used when none is configured.
var DefaultRegionKeys = RegionKeys{"name", "NAME", "Province_State"}

// Name returns the region name of f under the first key holding a non-empty string.
func (k RegionKeys) Name(f Feature) (string, bool) {
	for _, key := range k {
		v, ok := f.Properties[key]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s, true
		}
	}
	return "", false
}

// RegionNames lists the distinct region names the collection carries, in file order.
// Features without a usable name are skipped.
func (b *Boundaries) RegionNames(keys RegionKeys) []string {
	if b == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(b.Features))
	var out []string
	for _, f := range b.Features {
		name, ok := keys.Name(f)
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

type rawFeature struct {
	ID         any             `json:"id"`
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

type rawTopoObject struct {
	Type       string            `json:"type"`
	Geometries []json.RawMessage `json:"geometries"`
}

type rawDocument struct {
	Type     string                   `json:"type"`
	Features []rawFeature             `json:"features"`
	Objects  map[string]rawTopoObject `json:"objects"`
}

// ReadBoundaries decodes a GeoJSON FeatureCollection or a TopoJSON Topology. For
// topologies the geometries of the named object become the features.
func ReadBoundaries(r io.Reader, object string) (*Boundaries, error) {
	var doc rawDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode boundaries: %w", err)
	}
	switch strings.ToLower(doc.Type) {
	case "featurecollection":
		out := &Boundaries{Features: make([]Feature, 0, len(doc.Features))}
		for _, f := range doc.Features {
			out.Features = append(out.Features, Feature{ID: idString(f.ID), Properties: f.Properties, Geometry: f.Geometry})
		}
		return out, nil
	case "topology":
		obj, ok := doc.Objects[object]
		if !ok {
			return nil, fmt.Errorf("topology has no object %q", object)
		}
		out := &Boundaries{Features: make([]Feature, 0, len(obj.Geometries))}
		for i, raw := range obj.Geometries {
			var g rawFeature
			if err := json.Unmarshal(raw, &g); err != nil {
				return nil, fmt.Errorf("topology object %q geometry %d: %w", object, i, err)
			}
			out.Features = append(out.Features, Feature{ID: idString(g.ID), Properties: g.Properties, Geometry: raw})
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported boundary document type %q", doc.Type)
}

func idString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return fmt.Sprintf("%g", x)
	default:
		return fmt.Sprint(x)
	}
}
