package mapcss

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jamesrr39/mapstyle/geodata"
)

const (
	// DefaultLayerID is the layer a selector without a ::layer suffix writes to.
	DefaultLayerID = "default"
	// WildcardLayerID is the template layer whose properties seed new layers.
	WildcardLayerID = "*"
)

type ObjectType int

const (
	ObjectTypeAll ObjectType = iota
	ObjectTypeCanvas
	ObjectTypeMeta
	ObjectTypeNode
	ObjectTypeWay
)

func (ot ObjectType) String() string {
	switch ot {
	case ObjectTypeAll:
		return "*"
	case ObjectTypeCanvas:
		return "canvas"
	case ObjectTypeMeta:
		return "meta"
	case ObjectTypeNode:
		return "node"
	case ObjectTypeWay:
		return "way"
	}
	return fmt.Sprintf("ObjectType(%d)", int(ot))
}

type UnaryTestType int

const (
	UnaryTestTypeExists UnaryTestType = iota
	UnaryTestTypeNotExists
	UnaryTestTypeTrue
	UnaryTestTypeFalse
)

type BinaryStringTestType int

const (
	BinaryStringTestTypeEqual BinaryStringTestType = iota
	BinaryStringTestTypeNotEqual
)

type BinaryNumericTestType int

const (
	BinaryNumericTestTypeLess BinaryNumericTestType = iota
	BinaryNumericTestTypeLessOrEqual
	BinaryNumericTestTypeGreater
	BinaryNumericTestTypeGreaterOrEqual
)

// Test is one [bracketed] predicate over an entity's tags.
type Test interface {
	testNode()
}

type UnaryTest struct {
	TagName  string
	TestType UnaryTestType
}

type BinaryStringCompareTest struct {
	TagName  string
	Value    string
	TestType BinaryStringTestType
}

type BinaryNumericCompareTest struct {
	TagName  string
	Value    float64
	TestType BinaryNumericTestType
}

func (t *UnaryTest) testNode()               {}
func (t *BinaryStringCompareTest) testNode() {}
func (t *BinaryNumericCompareTest) testNode() {}

// Selector is either a SingleSelector or a NestedSelector.
type Selector interface {
	// Layer returns the layer this selector writes to.
	Layer() string
}

type SingleSelector struct {
	ObjectType ObjectType
	// ShouldBeClosed, when set, constrains a way selector to closed ("area")
	// or open ("line") geometries.
	ShouldBeClosed *bool
	MinZoom        *geodata.ZoomLevel
	MaxZoom        *geodata.ZoomLevel
	Tests          []Test
	// LayerID is the explicit ::layer suffix, or "" when absent.
	LayerID string
}

func (s *SingleSelector) Layer() string {
	if s.LayerID == "" {
		return DefaultLayerID
	}
	return s.LayerID
}

// NestedSelector is a parent/child selector pair ("way node[x]"). It is
// parsed and stored, but nested matching is not implemented: it never
// matches any entity.
type NestedSelector struct {
	Parent *SingleSelector
	Child  *SingleSelector
}

func (s *NestedSelector) Layer() string {
	return s.Child.Layer()
}

// PropertyValue is an untyped property payload. It gets a concrete meaning
// only when a style field is extracted from it.
type PropertyValue interface {
	fmt.Stringer
}

type ColorValue struct {
	Color Color
}

func (v *ColorValue) String() string {
	return v.Color.String()
}

type IdentifierValue struct {
	ID string
}

func (v *IdentifierValue) String() string {
	return v.ID
}

type NumbersValue struct {
	Numbers []float64
}

func (v *NumbersValue) String() string {
	strs := make([]string, 0, len(v.Numbers))
	for _, num := range v.Numbers {
		strs = append(strs, strconv.FormatFloat(num, 'f', -1, 64))
	}
	return strings.Join(strs, ",")
}

type Property struct {
	Name  string
	Value PropertyValue
}

// Rule is one stylesheet block: the selectors in front of it and the
// property assignments inside it. Rule order in the stylesheet defines
// cascade precedence.
type Rule struct {
	Selectors  []Selector
	Properties []*Property
}
