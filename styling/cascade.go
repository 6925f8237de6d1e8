package styling

import (
	"github.com/jamesrr39/mapstyle/geodata"
	"github.com/jamesrr39/mapstyle/mapcss"
)

// propertyMap holds the latest assigned value per property name.
type propertyMap map[string]mapcss.PropertyValue

type layerToPropertyMap map[string]propertyMap

// resolveLayers runs the cascade for one area: rules in stylesheet order,
// selectors in declared order, last write wins per (layer, property name).
//
// A layer is seeded exactly once, at its first write, from the wildcard
// layer's contents at that moment. Writes to the wildcard layer itself are
// additionally propagated to every already-existing layer. Interleaving
// wildcard and named-layer rules is therefore order-sensitive: seeding looks
// backwards, propagation looks forwards.
func resolveLayers(area geodata.Area, rules []*mapcss.Rule, zoom geodata.ZoomLevel) layerToPropertyMap {
	result := layerToPropertyMap{}

	for _, rule := range rules {
		for _, selector := range rule.Selectors {
			if !areaMatches(area, selector, zoom) {
				continue
			}

			layerID := selector.Layer()

			updateLayer := func(layer propertyMap) {
				for _, prop := range rule.Properties {
					layer[prop.Name] = prop.Value
				}
			}

			if _, ok := result[layerID]; !ok {
				seeded := propertyMap{}
				for name, value := range result[mapcss.WildcardLayerID] {
					seeded[name] = value
				}
				result[layerID] = seeded
			}

			updateLayer(result[layerID])

			if layerID == mapcss.WildcardLayerID {
				for otherID, layer := range result {
					if otherID == mapcss.WildcardLayerID {
						continue
					}
					updateLayer(layer)
				}
			}
		}
	}

	return result
}
