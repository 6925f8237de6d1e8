package mapcss

import (
	"testing"

	"github.com/jamesrr39/mapstyle/geodata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawTestSheet = `// roads and water
canvas {
	fill-color: #f1eee8;
}

way|z10-[highway=residential] {
	color: #ffffff;
	width: 2.5;
}

/* buildings are closed ways */
area[building] {
	fill-color: #d9d0c9;
	z-index: 1;
}

line|z12-14[waterway=stream][intermittent?!]::water {
	color: cadetblue;
	dashes: 4,2;
	line-cap: round;
}

way node[barrier] {
	width: 1;
}

*|z-8[population>=100000]::* {
	z-index: 5;
}
`

func zoomLevel(z float64) *geodata.ZoomLevel {
	zl := geodata.ZoomLevel(z)
	return &zl
}

func TestParseString(t *testing.T) {
	rules, err := ParseString(rawTestSheet)
	require.Nil(t, err)
	require.Len(t, rules, 6)

	canvasRule := rules[0]
	require.Len(t, canvasRule.Selectors, 1)
	canvasSelector := canvasRule.Selectors[0].(*SingleSelector)
	assert.Equal(t, ObjectTypeCanvas, canvasSelector.ObjectType)
	require.Len(t, canvasRule.Properties, 1)
	assert.Equal(t, "fill-color", canvasRule.Properties[0].Name)
	assert.Equal(t, &ColorValue{Color: Color{0xf1, 0xee, 0xe8}}, canvasRule.Properties[0].Value)

	roadRule := rules[1]
	roadSelector := roadRule.Selectors[0].(*SingleSelector)
	assert.Equal(t, ObjectTypeWay, roadSelector.ObjectType)
	assert.Nil(t, roadSelector.ShouldBeClosed)
	assert.Equal(t, zoomLevel(10), roadSelector.MinZoom)
	assert.Nil(t, roadSelector.MaxZoom)
	require.Len(t, roadSelector.Tests, 1)
	assert.Equal(t, &BinaryStringCompareTest{
		TagName:  "highway",
		Value:    "residential",
		TestType: BinaryStringTestTypeEqual,
	}, roadSelector.Tests[0])
	assert.Equal(t, "default", roadSelector.Layer())
	require.Len(t, roadRule.Properties, 2)
	assert.Equal(t, &NumbersValue{Numbers: []float64{2.5}}, roadRule.Properties[1].Value)

	buildingSelector := rules[2].Selectors[0].(*SingleSelector)
	assert.Equal(t, ObjectTypeWay, buildingSelector.ObjectType)
	require.NotNil(t, buildingSelector.ShouldBeClosed)
	assert.True(t, *buildingSelector.ShouldBeClosed)
	assert.Equal(t, &UnaryTest{TagName: "building", TestType: UnaryTestTypeExists}, buildingSelector.Tests[0])

	waterSelector := rules[3].Selectors[0].(*SingleSelector)
	require.NotNil(t, waterSelector.ShouldBeClosed)
	assert.False(t, *waterSelector.ShouldBeClosed)
	assert.Equal(t, zoomLevel(12), waterSelector.MinZoom)
	assert.Equal(t, zoomLevel(14), waterSelector.MaxZoom)
	require.Len(t, waterSelector.Tests, 2)
	assert.Equal(t, &UnaryTest{TagName: "intermittent", TestType: UnaryTestTypeFalse}, waterSelector.Tests[1])
	assert.Equal(t, "water", waterSelector.Layer())
	assert.Equal(t, &IdentifierValue{ID: "cadetblue"}, rules[3].Properties[0].Value)
	assert.Equal(t, &NumbersValue{Numbers: []float64{4, 2}}, rules[3].Properties[1].Value)

	nestedSelector, ok := rules[4].Selectors[0].(*NestedSelector)
	require.True(t, ok)
	assert.Equal(t, ObjectTypeWay, nestedSelector.Parent.ObjectType)
	assert.Equal(t, ObjectTypeNode, nestedSelector.Child.ObjectType)
	assert.Equal(t, "default", nestedSelector.Layer())

	wildcardSelector := rules[5].Selectors[0].(*SingleSelector)
	assert.Equal(t, ObjectTypeAll, wildcardSelector.ObjectType)
	assert.Nil(t, wildcardSelector.MinZoom)
	assert.Equal(t, zoomLevel(8), wildcardSelector.MaxZoom)
	assert.Equal(t, &BinaryNumericCompareTest{
		TagName:  "population",
		Value:    100000,
		TestType: BinaryNumericTestTypeGreaterOrEqual,
	}, wildcardSelector.Tests[0])
	assert.Equal(t, WildcardLayerID, wildcardSelector.Layer())
}

func TestParseString_selectorGroups(t *testing.T) {
	rules, err := ParseString(`way[highway=primary], area[amenity=parking] { width: 1; }`)
	require.Nil(t, err)
	require.Len(t, rules, 1)
	require.Len(t, rules[0].Selectors, 2)
}

func TestParseString_errors(t *testing.T) {
	type args struct {
		stylesheet string
	}
	tests := []struct {
		name string
		args args
	}{
		{"unknown object type", args{`road { width: 1; }`}},
		{"unterminated rule block", args{`way { width: 1;`}},
		{"missing semicolon", args{`way { width: 1 }`}},
		{"empty zoom range", args{`way|z { width: 1; }`}},
		{"non-numeric comparison value", args{`way[width<wide] { width: 1; }`}},
		{"unterminated tag test", args{`way[highway { width: 1; }`}},
		{"bad color", args{`way { color: #zzz; }`}},
		{"unterminated block comment", args{`/* way { width: 1; }`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.args.stylesheet)
			assert.NotNil(t, err)
		})
	}
}
