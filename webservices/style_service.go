package webservices

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/mapstyle/geodata"
	"github.com/jamesrr39/mapstyle/styling"
)

type StyleService struct {
	logger *logpkg.Logger
	styler *styling.Styler
	chi.Router
}

func NewStyleService(logger *logpkg.Logger, styler *styling.Styler) *StyleService {
	ws := &StyleService{logger, styler, chi.NewRouter()}

	ws.Post("/", ws.handleStyleFeatures)
	ws.Get("/canvas", ws.handleGetCanvas)

	return ws
}

type featureType struct {
	ID     int64             `json:"id"`
	Closed bool              `json:"closed"`
	Tags   map[string]string `json:"tags"`
}

type styleRequestType struct {
	Zoom     float64        `json:"zoom"`
	Features []*featureType `json:"features"`
}

type styledFeatureType struct {
	FeatureID   int64     `json:"featureId"`
	Layer       string    `json:"layer"`
	ZIndex      float64   `json:"zIndex"`
	Color       string    `json:"color,omitempty"`
	FillColor   string    `json:"fillColor,omitempty"`
	Opacity     *float64  `json:"opacity,omitempty"`
	FillOpacity *float64  `json:"fillOpacity,omitempty"`
	Width       *float64  `json:"width,omitempty"`
	Dashes      []float64 `json:"dashes,omitempty"`
	LineJoin    string    `json:"lineJoin,omitempty"`
	LineCap     string    `json:"lineCap,omitempty"`
}

func (ws *StyleService) handleStyleFeatures(w http.ResponseWriter, r *http.Request) {
	request := new(styleRequestType)
	err := render.DecodeJSON(r.Body, request)
	if err != nil {
		errorsx.HTTPError(w, ws.logger, errorsx.Wrap(err), http.StatusBadRequest)
		return
	}

	areas := make([]geodata.Area, 0, len(request.Features))
	for _, feature := range request.Features {
		areas = append(areas, featureToWay(feature))
	}

	styledAreas := ws.styler.StyleAreas(areas, geodata.ZoomLevel(request.Zoom))

	response := make([]*styledFeatureType, 0, len(styledAreas))
	for _, styledArea := range styledAreas {
		response = append(response, styledAreaToResponse(styledArea))
	}

	render.JSON(w, r, response)
}

type canvasType struct {
	FillColor string `json:"fillColor,omitempty"`
}

func (ws *StyleService) handleGetCanvas(w http.ResponseWriter, r *http.Request) {
	canvas := canvasType{}
	if ws.styler.CanvasFillColor != nil {
		canvas.FillColor = ws.styler.CanvasFillColor.String()
	}

	render.JSON(w, r, canvas)
}

func featureToWay(feature *featureType) *geodata.Way {
	tagKeys := make([]string, 0, len(feature.Tags))
	for key := range feature.Tags {
		tagKeys = append(tagKeys, key)
	}
	sort.Strings(tagKeys)

	tags := make(geodata.Tags, 0, len(tagKeys))
	for _, key := range tagKeys {
		tags = append(tags, &geodata.Tag{Key: key, Value: feature.Tags[key]})
	}

	return &geodata.Way{ID: feature.ID, Closed: feature.Closed, WayTags: tags}
}

func styledAreaToResponse(styledArea *styling.StyledArea) *styledFeatureType {
	style := styledArea.Style

	response := &styledFeatureType{
		FeatureID:   styledArea.Area.GlobalID(),
		Layer:       styledArea.Layer,
		ZIndex:      style.ZIndex,
		Opacity:     style.Opacity,
		FillOpacity: style.FillOpacity,
		Width:       style.Width,
		Dashes:      style.Dashes,
	}

	if style.Color != nil {
		response.Color = style.Color.String()
	}
	if style.FillColor != nil {
		response.FillColor = style.FillColor.String()
	}
	if style.LineJoin != nil {
		response.LineJoin = style.LineJoin.String()
	}
	if style.LineCap != nil {
		response.LineCap = style.LineCap.String()
	}

	return response
}
