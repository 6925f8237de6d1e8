package styling

import (
	"math"
	"sort"

	"github.com/jamesrr39/mapstyle/geodata"
	"github.com/jamesrr39/mapstyle/mapcss"
	"github.com/jamesrr39/semaphore"
)

const (
	defaultZIndexClosed = 1.0
	defaultZIndexOpen   = 3.0

	maxConcurrentStyleOps = 4
)

// StyledArea is one renderable layer of one feature.
type StyledArea struct {
	Area  geodata.Area
	Layer string
	Style *Style
}

// Styler evaluates a parsed stylesheet against features. The rule list is
// owned by the Styler and read-only for its whole lifetime, so one Styler
// may be shared by concurrent callers.
type Styler struct {
	// CanvasFillColor is the background fill derived from the first canvas
	// rule at construction time, or nil when the stylesheet has none.
	CanvasFillColor *mapcss.Color

	rules       []*mapcss.Rule
	colorNames  ColorNameResolver
	diagnostics DiagnosticSink
}

// NewStyler takes ownership of rules. A nil colorNames falls back to the
// built-in CSS named-color table; a nil diagnostics sink discards
// diagnostics.
func NewStyler(rules []*mapcss.Rule, colorNames ColorNameResolver, diagnostics DiagnosticSink) *Styler {
	if colorNames == nil {
		colorNames = mapcss.FromColorName
	}

	return &Styler{
		CanvasFillColor: extractCanvasFillColor(rules),
		rules:           rules,
		colorNames:      colorNames,
		diagnostics:     diagnostics,
	}
}

func (s *Styler) RuleCount() int {
	return len(s.rules)
}

type areaResult struct {
	styled      []*StyledArea
	diagnostics []*Diagnostic
}

// StyleAreas styles every area at the given zoom and returns one entry per
// (feature, layer), globally sorted by (z-index, feature global id). The
// wildcard layer is a template only and never appears in the output.
//
// Features are evaluated independently on a bounded worker group;
// diagnostics are forwarded to the sink only after all workers are done, in
// input order, so sinks need no locking.
func (s *Styler) StyleAreas(areas []geodata.Area, zoom geodata.ZoomLevel) []*StyledArea {
	results := make([]areaResult, len(areas))

	sema := semaphore.NewSemaphore(maxConcurrentStyleOps)
	for i, area := range areas {
		i, area := i, area
		sema.Add()
		go func() {
			defer sema.Done()
			results[i] = s.styleArea(area, zoom)
		}()
	}
	sema.Wait()

	var styledAreas []*StyledArea
	for _, result := range results {
		if s.diagnostics != nil {
			for _, diagnostic := range result.diagnostics {
				s.diagnostics.HandleDiagnostic(diagnostic)
			}
		}
		styledAreas = append(styledAreas, result.styled...)
	}

	sort.Slice(styledAreas, func(a, b int) bool {
		return styledAreaLess(styledAreas[a], styledAreas[b])
	})

	return styledAreas
}

// styledAreaLess is a strict total order: z-index first, feature global id
// as tie-break. A NaN z-index sorts after every real number, so a malformed
// stylesheet degrades draw order deterministically instead of breaking the
// sort.
func styledAreaLess(a, b *StyledArea) bool {
	zA, zB := a.Style.ZIndex, b.Style.ZIndex
	nanA, nanB := math.IsNaN(zA), math.IsNaN(zB)
	switch {
	case nanA != nanB:
		return nanB
	case !nanA && zA != zB:
		return zA < zB
	}
	return a.Area.GlobalID() < b.Area.GlobalID()
}

func (s *Styler) styleArea(area geodata.Area, zoom geodata.ZoomLevel) areaResult {
	defaultZIndex := defaultZIndexOpen
	if area.IsClosed() {
		defaultZIndex = defaultZIndexClosed
	}

	layers := resolveLayers(area, s.rules, zoom)

	layerIDs := make([]string, 0, len(layers))
	for layerID := range layers {
		if layerID == mapcss.WildcardLayerID {
			continue
		}
		layerIDs = append(layerIDs, layerID)
	}
	sort.Strings(layerIDs)

	collector := new(CollectorSink)

	result := areaResult{}
	for _, layerID := range layerIDs {
		style := propertyMapToStyle(layers[layerID], defaultZIndex, area.GlobalID(), s.colorNames, collector)
		result.styled = append(result.styled, &StyledArea{
			Area:  area,
			Layer: layerID,
			Style: style,
		})
	}
	result.diagnostics = collector.Diagnostics

	return result
}

// extractCanvasFillColor finds the background fill: the first fill-color
// with a literal color value in a rule with a canvas selector.
func extractCanvasFillColor(rules []*mapcss.Rule) *mapcss.Color {
	for _, rule := range rules {
		for _, selector := range rule.Selectors {
			single, ok := selector.(*mapcss.SingleSelector)
			if !ok || single.ObjectType != mapcss.ObjectTypeCanvas {
				continue
			}
			for _, prop := range rule.Properties {
				if prop.Name != "fill-color" {
					continue
				}
				colorValue, isColor := prop.Value.(*mapcss.ColorValue)
				if isColor {
					c := colorValue.Color
					return &c
				}
			}
		}
	}

	return nil
}
