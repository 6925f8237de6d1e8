package legend

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/mapstyle/fonts"
	"github.com/jamesrr39/mapstyle/mapcss"
	"github.com/jamesrr39/mapstyle/styling"
	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
)

const (
	rowHeight    = 28
	swatchStartX = 10.0
	swatchEndX   = 140.0
	labelStartX  = 152
	fontSize     = 11.0
)

// RenderLegend draws one row per styled area: a swatch stroked/filled with
// the resolved style, and a label naming the feature, layer and z-index.
// The background is the stylesheet's canvas fill color, or white when the
// stylesheet has none.
func RenderLegend(styledAreas []*styling.StyledArea, canvasFillColor *mapcss.Color, imageWidth int) (image.Image, errorsx.Error) {
	background := color.Color(color.White)
	if canvasFillColor != nil {
		background = canvasFillColor.ToRGBA()
	}

	img := newImageWithBackground(image.Rect(0, 0, imageWidth, rowHeight*len(styledAreas)), background)

	gc := draw2dimg.NewGraphicContext(img)
	defer gc.Close()

	for i, styledArea := range styledAreas {
		drawSwatch(gc, styledArea.Style, float64(i*rowHeight+rowHeight/2))
	}

	for i, styledArea := range styledAreas {
		label := fmt.Sprintf("way %d (%s) z=%g",
			styledArea.Area.GlobalID(), styledArea.Layer, styledArea.Style.ZIndex)

		err := drawLabel(img, label, i*rowHeight+rowHeight/2+4)
		if err != nil {
			return nil, err
		}
	}

	return img, nil
}

func drawSwatch(gc *draw2dimg.GraphicContext, style *styling.Style, centerY float64) {
	if style.FillColor != nil {
		gc.SetFillColor(colorWithOpacity(*style.FillColor, style.FillOpacity))
		gc.BeginPath()
		gc.MoveTo(swatchStartX, centerY-8)
		gc.LineTo(swatchEndX, centerY-8)
		gc.LineTo(swatchEndX, centerY+8)
		gc.LineTo(swatchStartX, centerY+8)
		gc.Close()
		gc.Fill()
	}

	if style.Color == nil {
		return
	}

	gc.SetStrokeColor(colorWithOpacity(*style.Color, style.Opacity))

	width := 1.0
	if style.Width != nil {
		width = *style.Width
	}
	gc.SetLineWidth(width)

	if style.Dashes != nil {
		gc.SetLineDash(style.Dashes, 0)
	} else {
		gc.SetLineDash(nil, 0)
	}
	gc.SetLineCap(toDraw2DCap(style.LineCap))
	gc.SetLineJoin(toDraw2DJoin(style.LineJoin))

	gc.BeginPath()
	gc.MoveTo(swatchStartX, centerY)
	gc.LineTo(swatchEndX, centerY)
	gc.Stroke()
}

func drawLabel(img draw.Image, label string, baselineY int) errorsx.Error {
	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(fonts.DefaultFont())
	ctx.SetFontSize(fontSize)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.NewUniform(color.Black))

	_, err := ctx.DrawString(label, freetype.Pt(labelStartX, baselineY))
	if err != nil {
		return errorsx.Wrap(err)
	}

	return nil
}

func colorWithOpacity(c mapcss.Color, opacity *float64) color.RGBA {
	rgba := c.ToRGBA()
	if opacity != nil && *opacity >= 0 && *opacity <= 1 {
		rgba.A = uint8(*opacity * 0xff)
	}
	return rgba
}

func toDraw2DCap(lineCap *styling.LineCap) draw2d.LineCap {
	if lineCap == nil {
		return draw2d.ButtCap
	}
	switch *lineCap {
	case styling.LineCapRound:
		return draw2d.RoundCap
	case styling.LineCapSquare:
		return draw2d.SquareCap
	}
	return draw2d.ButtCap
}

func toDraw2DJoin(lineJoin *styling.LineJoin) draw2d.LineJoin {
	if lineJoin == nil {
		return draw2d.MiterJoin
	}
	switch *lineJoin {
	case styling.LineJoinRound:
		return draw2d.RoundJoin
	case styling.LineJoinBevel:
		return draw2d.BevelJoin
	}
	return draw2d.MiterJoin
}

func newImageWithBackground(r image.Rectangle, c color.Color) *image.RGBA {
	img := image.NewRGBA(r)

	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)

	return img
}
