package styling

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jamesrr39/mapstyle/mapcss"
)

type LineJoin int

const (
	LineJoinRound LineJoin = iota
	LineJoinMiter
	LineJoinBevel
)

func (lj LineJoin) String() string {
	switch lj {
	case LineJoinRound:
		return "round"
	case LineJoinMiter:
		return "miter"
	case LineJoinBevel:
		return "bevel"
	}
	return fmt.Sprintf("LineJoin(%d)", int(lj))
}

type LineCap int

const (
	LineCapButt LineCap = iota
	LineCapRound
	LineCapSquare
)

func (lc LineCap) String() string {
	switch lc {
	case LineCapButt:
		return "butt"
	case LineCapRound:
		return "round"
	case LineCapSquare:
		return "square"
	}
	return fmt.Sprintf("LineCap(%d)", int(lc))
}

// IsNonTrivialCap reports whether segment endpoints need geometric extension
// for this cap. Butt and absent caps don't.
func IsNonTrivialCap(lineCap *LineCap) bool {
	if lineCap == nil {
		return false
	}
	return *lineCap == LineCapRound || *lineCap == LineCapSquare
}

// Style is the resolved rendering style of one layer of one feature.
// ZIndex always has a value; every other field is optional.
type Style struct {
	ZIndex float64

	Color     *mapcss.Color
	FillColor *mapcss.Color

	Opacity     *float64
	FillOpacity *float64

	Width    *float64
	Dashes   []float64
	LineJoin *LineJoin
	LineCap  *LineCap
}

// String lists only the set fields, leaving z-index to the caller.
func (s *Style) String() string {
	var fields []string

	appendFloat := func(name string, value *float64) {
		if value != nil {
			fields = append(fields, name+"="+strconv.FormatFloat(*value, 'f', -1, 64))
		}
	}

	if s.Color != nil {
		fields = append(fields, "color="+s.Color.String())
	}
	if s.FillColor != nil {
		fields = append(fields, "fill-color="+s.FillColor.String())
	}
	appendFloat("opacity", s.Opacity)
	appendFloat("fill-opacity", s.FillOpacity)
	appendFloat("width", s.Width)
	if s.Dashes != nil {
		dashes := make([]string, 0, len(s.Dashes))
		for _, dash := range s.Dashes {
			dashes = append(dashes, strconv.FormatFloat(dash, 'f', -1, 64))
		}
		fields = append(fields, "dashes="+strings.Join(dashes, ","))
	}
	if s.LineJoin != nil {
		fields = append(fields, "line-join="+s.LineJoin.String())
	}
	if s.LineCap != nil {
		fields = append(fields, "line-cap="+s.LineCap.String())
	}

	return strings.Join(fields, " ")
}

// StyleHashKey is a comparable projection of Style for deduplication and
// memoization. Floats are carried as their raw bit patterns, so equality is
// exact structural equality: distinct NaN payloads stay distinct, and an
// unset field never equals a field explicitly set to the default.
type StyleHashKey struct {
	ZIndex uint64

	Color        mapcss.Color
	HasColor     bool
	FillColor    mapcss.Color
	HasFillColor bool

	Opacity        uint64
	HasOpacity     bool
	FillOpacity    uint64
	HasFillOpacity bool

	Width    uint64
	HasWidth bool

	// Dashes is the big-endian bit patterns of the dash sequence,
	// concatenated.
	Dashes    string
	HasDashes bool

	LineJoin    LineJoin
	HasLineJoin bool
	LineCap     LineCap
	HasLineCap  bool
}

func (s *Style) ToHashKey() StyleHashKey {
	key := StyleHashKey{
		ZIndex: math.Float64bits(s.ZIndex),
	}

	if s.Color != nil {
		key.Color, key.HasColor = *s.Color, true
	}
	if s.FillColor != nil {
		key.FillColor, key.HasFillColor = *s.FillColor, true
	}
	if s.Opacity != nil {
		key.Opacity, key.HasOpacity = math.Float64bits(*s.Opacity), true
	}
	if s.FillOpacity != nil {
		key.FillOpacity, key.HasFillOpacity = math.Float64bits(*s.FillOpacity), true
	}
	if s.Width != nil {
		key.Width, key.HasWidth = math.Float64bits(*s.Width), true
	}
	if s.Dashes != nil {
		buf := make([]byte, 8*len(s.Dashes))
		for i, dash := range s.Dashes {
			binary.BigEndian.PutUint64(buf[i*8:], math.Float64bits(dash))
		}
		key.Dashes, key.HasDashes = string(buf), true
	}
	if s.LineJoin != nil {
		key.LineJoin, key.HasLineJoin = *s.LineJoin, true
	}
	if s.LineCap != nil {
		key.LineCap, key.HasLineCap = *s.LineCap, true
	}

	return key
}
