package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/spencer-p/nscharters/pkg/conditions"
	"github.com/spencer-p/nscharters/pkg/gallery"
	"github.com/spencer-p/nscharters/pkg/stations"
	"github.com/spencer-p/nscharters/pkg/trips"
)

const photoDir = "static/images"

//go:embed templates/*.html
var content embed.FS

type TemplateInput struct {
	Prefix string
	Panels []PanelView
	Trips  trips.Table
	Trip   trips.Trip
	Map    LocationsResponse
	Year   int
}

// PanelView is a Panel with its chart already rendered to inline SVG.
type PanelView struct {
	conditions.Panel
	ChartSVG template.HTML
}

type GalleryInput struct {
	Prefix string
	Photo  string
	Index  int
	Count  int
	Next   int
	Prev   int
}

// makeServerSideIndex serves the conditions page fully rendered on the server.
func (s *Server) makeServerSideIndex() http.HandlerFunc {
	indexTemplate := template.Must(template.ParseFS(content, "templates/index.html"))

	return func(w http.ResponseWriter, r *http.Request) {
		table := s.loader.Stations()
		board := conditions.NewBoard(table)
		s.loader.Load(r.Context(), board)

		trip, err := s.trips.Lookup(r.FormValue("trip"))
		if err != nil {
			trip, _ = s.trips.Lookup(trips.DefaultKey)
		}

		tinput := TemplateInput{
			Prefix: s.base(),
			Panels: panelViews(board.Panels()),
			Trips:  s.trips,
			Trip:   trip,
			Map:    locations(table),
			Year:   s.now().Year(),
		}

		w.Header().Set("Content-Type", contentHTML)
		w.WriteHeader(http.StatusOK)
		if err := indexTemplate.Execute(w, tinput); err != nil {
			s.log.Error("failed to execute template", "template", "index", "err", err)
		}
	}
}

// base is the prefix with exactly one trailing slash, for relative links.
func (s *Server) base() string {
	return strings.TrimSuffix(s.prefix, "/") + "/"
}

func panelViews(panels []conditions.Panel) []PanelView {
	result := make([]PanelView, len(panels))
	for i, p := range panels {
		result[i].Panel = p
		if p.Chart != nil {
			result[i].ChartSVG = template.HTML(p.Chart.String())
		}
	}
	return result
}

func locations(table stations.Table) LocationsResponse {
	b := stations.Bounds(table, stations.BoundsPad)
	return LocationsResponse{
		Markers: stations.Markers(table),
		Bounds: [2][2]float64{
			{b.Min.Lat(), b.Min.Lon()},
			{b.Max.Lat(), b.Max.Lon()},
		},
	}
}

// makeGallery serves one photo at a time with wrapping previous/next links.
func (s *Server) makeGallery() http.HandlerFunc {
	galleryTemplate := template.Must(template.ParseFS(content, "templates/gallery.html"))

	return func(w http.ResponseWriter, r *http.Request) {
		photos, err := gallery.Photos(os.DirFS(s.dataDir), photoDir)
		if err != nil {
			s.log.Warn("failed to list photos", "dir", photoDir, "err", err)
		}

		c := gallery.Carousel{Len: len(photos)}
		if i, err := strconv.Atoi(r.FormValue("photo")); err == nil {
			c.Open(i)
		}

		ginput := GalleryInput{
			Prefix: s.base(),
			Index:  c.Index,
			Count:  c.Len,
			Next:   c.NextIndex(),
			Prev:   c.PrevIndex(),
		}
		if c.Len > 0 {
			ginput.Photo = s.staticPath(photos[c.Index])
		}

		w.Header().Set("Content-Type", contentHTML)
		w.WriteHeader(http.StatusOK)
		if err := galleryTemplate.Execute(w, ginput); err != nil {
			s.log.Error("failed to execute template", "template", "gallery", "err", err)
		}
	}
}
