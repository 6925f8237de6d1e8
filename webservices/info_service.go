package webservices

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/mapstyle/styling"
)

const apiVersion = "1"

func NewInfoService(logger *logpkg.Logger, styler *styling.Styler) *InfoService {
	ws := &InfoService{logger, styler, chi.NewRouter()}
	ws.Get("/", ws.handleGet)

	return ws
}

type InfoService struct {
	logger *logpkg.Logger
	styler *styling.Styler
	chi.Router
}

type infoType struct {
	APIVersion      string `json:"apiVersion"`
	RuleCount       int    `json:"ruleCount"`
	CanvasFillColor string `json:"canvasFillColor,omitempty"`
}

func (ws *InfoService) handleGet(w http.ResponseWriter, r *http.Request) {
	info := infoType{
		APIVersion: apiVersion,
		RuleCount:  ws.styler.RuleCount(),
	}

	if ws.styler.CanvasFillColor != nil {
		info.CanvasFillColor = ws.styler.CanvasFillColor.String()
	}

	render.JSON(w, r, info)
}
