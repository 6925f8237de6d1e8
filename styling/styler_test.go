package styling

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"

	snapshot "github.com/jamesrr39/go-snapshot-testing"
	"github.com/jamesrr39/mapstyle/geodata"
	"github.com/jamesrr39/mapstyle/mapcss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewStyler_canvasFillColor(t *testing.T) {
	type args struct {
		stylesheet string
	}
	tests := []struct {
		name string
		args args
		want *mapcss.Color
	}{
		{
			"first canvas rule wins",
			args{`canvas { fill-color: #f1eee8; } canvas { fill-color: #000000; }`},
			&mapcss.Color{R: 0xf1, G: 0xee, B: 0xe8},
		},
		{
			"identifier fill-color is not a literal color",
			args{`canvas { fill-color: beige; } canvas { fill-color: #f1eee8; }`},
			&mapcss.Color{R: 0xf1, G: 0xee, B: 0xe8},
		},
		{
			"no canvas rule",
			args{`way { fill-color: #f1eee8; }`},
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			styler := NewStyler(mustParseRules(t, tt.args.stylesheet), nil, nil)
			assert.Equal(t, tt.want, styler.CanvasFillColor)
		})
	}
}

func Test_StyleAreas_residentialWay(t *testing.T) {
	rules := mustParseRules(t, `way[highway=residential] { color: #ff0000; width: 2; }`)
	collector := new(CollectorSink)
	styler := NewStyler(rules, nil, collector)

	styledAreas := styler.StyleAreas([]geodata.Area{
		openWay(1, tag("highway", "residential")),
	}, 14)

	require.Len(t, styledAreas, 1)
	style := styledAreas[0].Style
	assert.Equal(t, &mapcss.Color{R: 0xff, G: 0, B: 0}, style.Color)
	require.NotNil(t, style.Width)
	assert.Equal(t, 2.0, *style.Width)
	assert.Equal(t, 3.0, style.ZIndex)
	assert.Nil(t, style.FillColor)
	assert.Nil(t, style.Opacity)
	assert.Nil(t, style.FillOpacity)
	assert.Nil(t, style.Dashes)
	assert.Nil(t, style.LineJoin)
	assert.Nil(t, style.LineCap)
	assert.Empty(t, collector.Diagnostics)
}

func Test_StyleAreas_wildcardObjectType(t *testing.T) {
	rules := mustParseRules(t, `
		* { z-index: 5; }
		way { color: #00ff00; }
	`)
	styler := NewStyler(rules, nil, nil)

	styledAreas := styler.StyleAreas([]geodata.Area{openWay(1)}, 14)

	require.Len(t, styledAreas, 1)
	assert.Equal(t, "default", styledAreas[0].Layer)
	assert.Equal(t, 5.0, styledAreas[0].Style.ZIndex)
	assert.Equal(t, &mapcss.Color{R: 0, G: 0xff, B: 0}, styledAreas[0].Style.Color)
}

func Test_StyleAreas_unsatisfiableTestContributesNothing(t *testing.T) {
	rules := mustParseRules(t, `
		way[!highway][highway=residential] { width: 4; }
		way { width: 1; }
	`)
	styler := NewStyler(rules, nil, nil)

	styledAreas := styler.StyleAreas([]geodata.Area{
		openWay(1, tag("highway", "residential")),
	}, 14)

	require.Len(t, styledAreas, 1)
	require.NotNil(t, styledAreas[0].Style.Width)
	assert.Equal(t, 1.0, *styledAreas[0].Style.Width)
}

func Test_StyleAreas_wildcardLayerNeverInOutput(t *testing.T) {
	rules := mustParseRules(t, `
		way::* { width: 1; }
		way::casing { width: 2; }
	`)
	styler := NewStyler(rules, nil, nil)

	styledAreas := styler.StyleAreas([]geodata.Area{openWay(1)}, 14)

	require.Len(t, styledAreas, 1)
	assert.Equal(t, "casing", styledAreas[0].Layer)
}

func Test_StyleAreas_defaultZIndexByGeometry(t *testing.T) {
	rules := mustParseRules(t, `way { width: 1; }`)
	styler := NewStyler(rules, nil, nil)

	styledAreas := styler.StyleAreas([]geodata.Area{
		closedWay(1),
		openWay(2),
	}, 14)

	require.Len(t, styledAreas, 2)
	assert.Equal(t, 1.0, styledAreas[0].Style.ZIndex)
	assert.Equal(t, int64(1), styledAreas[0].Area.GlobalID())
	assert.Equal(t, 3.0, styledAreas[1].Style.ZIndex)
}

func Test_StyleAreas_sortedByZIndexThenID(t *testing.T) {
	rules := mustParseRules(t, `
		way[highway=motorway] { z-index: 10; }
		way { width: 1; }
	`)
	styler := NewStyler(rules, nil, nil)

	styledAreas := styler.StyleAreas([]geodata.Area{
		openWay(5, tag("highway", "motorway")),
		openWay(3),
		openWay(9),
		openWay(1),
	}, 14)

	require.Len(t, styledAreas, 4)

	var got []string
	for _, styledArea := range styledAreas {
		got = append(got, fmt.Sprintf("%d@%v", styledArea.Area.GlobalID(), styledArea.Style.ZIndex))
	}
	assert.Equal(t, []string{"1@3", "3@3", "9@3", "5@10"}, got)
}

func Test_styledAreaLess_nanSortsLast(t *testing.T) {
	nanStyled := func(id int64) *StyledArea {
		return &StyledArea{Area: openWay(id), Style: &Style{ZIndex: math.NaN()}}
	}
	numStyled := func(id int64, z float64) *StyledArea {
		return &StyledArea{Area: openWay(id), Style: &Style{ZIndex: z}}
	}

	assert.True(t, styledAreaLess(numStyled(5, 100), nanStyled(1)))
	assert.False(t, styledAreaLess(nanStyled(1), numStyled(5, 100)))
	// between two NaN entries the global id decides
	assert.True(t, styledAreaLess(nanStyled(1), nanStyled(2)))
	assert.False(t, styledAreaLess(nanStyled(2), nanStyled(1)))
	// irreflexive
	assert.False(t, styledAreaLess(nanStyled(1), nanStyled(1)))
}

func Test_StyleAreas_forwardsDiagnostics(t *testing.T) {
	rules := mustParseRules(t, `way { dashes: red; }`)
	collector := new(CollectorSink)
	styler := NewStyler(rules, nil, collector)

	styler.StyleAreas([]geodata.Area{openWay(77)}, 14)

	require.Len(t, collector.Diagnostics, 1)
	assert.Equal(t, int64(77), collector.Diagnostics[0].EntityID)
	assert.Equal(t, "dashes", collector.Diagnostics[0].Property)
}

const snapshotTestSheet = `canvas { fill-color: #f1eee8; }
way[highway=residential] { color: #ffffff; width: 2; }
area[building] { fill-color: #d9d0c9; }
line[waterway=stream]::water { color: cadetblue; dashes: 4,2; line-cap: round; }
`

func Test_StyleAreas_dumpSnapshot(t *testing.T) {
	rules := mustParseRules(t, snapshotTestSheet)
	styler := NewStyler(rules, nil, nil)

	styledAreas := styler.StyleAreas([]geodata.Area{
		openWay(1, tag("highway", "residential")),
		closedWay(2, tag("building", "yes")),
		openWay(3, tag("waterway", "stream")),
	}, 14)

	snapshot.AssertMatchesSnapshot(t, "styled_areas_dump", snapshot.NewTextSnapshot(dumpStyledAreas(styledAreas)))
}

func dumpStyledAreas(styledAreas []*StyledArea) string {
	var sb strings.Builder
	for _, styledArea := range styledAreas {
		style := styledArea.Style
		fmt.Fprintf(&sb, "way %d %s z=%s", styledArea.Area.GlobalID(), styledArea.Layer, strconv.FormatFloat(style.ZIndex, 'f', -1, 64))
		if fields := style.String(); fields != "" {
			sb.WriteString(" " + fields)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
