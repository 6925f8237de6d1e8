package styling

import (
	"strconv"

	"github.com/jamesrr39/mapstyle/geodata"
	"github.com/jamesrr39/mapstyle/mapcss"
)

func areaMatches(area geodata.Area, selector mapcss.Selector, zoom geodata.ZoomLevel) bool {
	switch sel := selector.(type) {
	case *mapcss.SingleSelector:
		return areaMatchesSingle(area, sel, zoom)
	case *mapcss.NestedSelector:
		// nested matching is not implemented; a nested selector never
		// matches anything
		return false
	}
	return false
}

func areaMatchesSingle(area geodata.Area, selector *mapcss.SingleSelector, zoom geodata.ZoomLevel) bool {
	if selector.MinZoom != nil && zoom < *selector.MinZoom {
		return false
	}
	if selector.MaxZoom != nil && zoom > *selector.MaxZoom {
		return false
	}

	switch selector.ObjectType {
	case mapcss.ObjectTypeAll:
	case mapcss.ObjectTypeWay:
		if selector.ShouldBeClosed != nil && *selector.ShouldBeClosed != area.IsClosed() {
			return false
		}
	default:
		// canvas, meta, node: not an area kind
		return false
	}

	for _, test := range selector.Tests {
		if !matchesByTags(area, test) {
			return false
		}
	}

	return true
}

func isTrueValue(val string) bool {
	return val == "yes" || val == "true" || val == "1"
}

func matchesByTags(entity geodata.Entity, test mapcss.Test) bool {
	tags := entity.Tags()

	switch t := test.(type) {
	case *mapcss.UnaryTest:
		tagVal, ok := tags.GetByKey(t.TagName)
		switch t.TestType {
		case mapcss.UnaryTestTypeExists:
			return ok
		case mapcss.UnaryTestTypeNotExists:
			return !ok
		case mapcss.UnaryTestTypeTrue:
			return ok && isTrueValue(tagVal)
		case mapcss.UnaryTestTypeFalse:
			return !(ok && isTrueValue(tagVal))
		}
	case *mapcss.BinaryStringCompareTest:
		tagVal, ok := tags.GetByKey(t.TagName)
		switch t.TestType {
		case mapcss.BinaryStringTestTypeEqual:
			return ok && tagVal == t.Value
		case mapcss.BinaryStringTestTypeNotEqual:
			return !ok || tagVal != t.Value
		}
	case *mapcss.BinaryNumericCompareTest:
		tagVal, ok := tags.GetByKey(t.TagName)
		if !ok {
			return false
		}
		// a non-numeric tag value is a normal non-match, never an error
		num, err := strconv.ParseFloat(tagVal, 64)
		if err != nil {
			return false
		}
		switch t.TestType {
		case mapcss.BinaryNumericTestTypeLess:
			return num < t.Value
		case mapcss.BinaryNumericTestTypeLessOrEqual:
			return num <= t.Value
		case mapcss.BinaryNumericTestTypeGreater:
			return num > t.Value
		case mapcss.BinaryNumericTestTypeGreaterOrEqual:
			return num >= t.Value
		}
	}

	return false
}
