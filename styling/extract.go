package styling

import (
	"github.com/jamesrr39/mapstyle/mapcss"
)

// ColorNameResolver maps a color identifier ("cadetblue") to a color value.
type ColorNameResolver func(name string) (mapcss.Color, bool)

// propertyMapToStyle converts one cascaded layer into a typed Style. Every
// field is derived independently; a malformed value degrades that field to
// nil and emits one diagnostic, it never aborts the other fields.
func propertyMapToStyle(
	properties propertyMap,
	defaultZIndex float64,
	entityID int64,
	colorNames ColorNameResolver,
	diagnostics DiagnosticSink,
) *Style {
	warn := func(propName, reason string) {
		value, ok := properties[propName]
		if !ok || diagnostics == nil {
			return
		}
		diagnostics.HandleDiagnostic(&Diagnostic{
			EntityID: entityID,
			Property: propName,
			Value:    value,
			Reason:   reason,
		})
	}

	getColor := func(propName string) *mapcss.Color {
		value, ok := properties[propName]
		if !ok {
			return nil
		}
		switch v := value.(type) {
		case *mapcss.ColorValue:
			c := v.Color
			return &c
		case *mapcss.IdentifierValue:
			c, found := colorNames(v.ID)
			if !found {
				warn(propName, "unknown color")
				return nil
			}
			return &c
		default:
			warn(propName, "expected a valid color")
			return nil
		}
	}

	getNum := func(propName string) *float64 {
		value, ok := properties[propName]
		if !ok {
			return nil
		}
		numbers, isNumbers := value.(*mapcss.NumbersValue)
		if !isNumbers || len(numbers.Numbers) != 1 {
			warn(propName, "expected a number")
			return nil
		}
		num := numbers.Numbers[0]
		return &num
	}

	getID := func(propName string) (string, bool) {
		value, ok := properties[propName]
		if !ok {
			return "", false
		}
		id, isID := value.(*mapcss.IdentifierValue)
		if !isID {
			warn(propName, "expected an identifier")
			return "", false
		}
		return id.ID, true
	}

	var lineJoin *LineJoin
	if id, ok := getID("line-join"); ok {
		switch id {
		case "round":
			lj := LineJoinRound
			lineJoin = &lj
		case "miter":
			lj := LineJoinMiter
			lineJoin = &lj
		case "bevel":
			lj := LineJoinBevel
			lineJoin = &lj
		default:
			warn("line-join", "unknown line join value")
		}
	}

	var lineCap *LineCap
	if id, ok := getID("line-cap"); ok {
		switch id {
		case "none":
			lc := LineCapButt
			lineCap = &lc
		case "round":
			lc := LineCapRound
			lineCap = &lc
		case "square":
			lc := LineCapSquare
			lineCap = &lc
		default:
			warn("line-cap", "unknown line cap value")
		}
	}

	var dashes []float64
	if value, ok := properties["dashes"]; ok {
		numbers, isNumbers := value.(*mapcss.NumbersValue)
		if isNumbers {
			dashes = append([]float64{}, numbers.Numbers...)
		} else {
			warn("dashes", "expected a sequence of numbers")
		}
	}

	// z-index is asymmetric with the other numeric fields: absence or a bad
	// value silently falls back to the default, with no diagnostic.
	zIndex := defaultZIndex
	if numbers, ok := properties["z-index"].(*mapcss.NumbersValue); ok && len(numbers.Numbers) == 1 {
		zIndex = numbers.Numbers[0]
	}

	return &Style{
		ZIndex: zIndex,

		Color:     getColor("color"),
		FillColor: getColor("fill-color"),

		Opacity:     getNum("opacity"),
		FillOpacity: getNum("fill-opacity"),

		Width:    getNum("width"),
		Dashes:   dashes,
		LineJoin: lineJoin,
		LineCap:  lineCap,
	}
}
