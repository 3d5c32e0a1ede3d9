// Package mapper turns located hops into an interactive Leaflet map document.
package mapper

import (
	"fmt"
	"html"
	"strings"

	"github.com/woozymasta/georoute/internal/config"
	"github.com/woozymasta/georoute/internal/geo"
)

// Options control the generated map document.
type Options struct {
	Title       string
	TileURL     string
	Attribution string
	Zoom        int
	Minify      bool
}

// Point is a [lat, lon] pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Marker is one map pin per location group.
type Marker struct {
	City    string  `json:"city"`
	Popup   string  `json:"popup"`
	Entries []Entry `json:"entries"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Polyline connects the location groups in first-seen order.
type Polyline struct {
	Color   string       `json:"color"`
	LatLngs [][2]float64 `json:"latlngs"`
	Weight  float64      `json:"weight"`
	Opacity float64      `json:"opacity"`
}

// Document is everything the map template renders.
type Document struct {
	Title       string
	TileURL     string
	Attribution string
	Markers     []Marker
	Legend      []Entry
	Line        Polyline
	Center      Point
	Zoom        int
	PathKm      float64
}

// Build assembles the map document. Records must not be empty.
func Build(records []geo.Record, opts Options) (*Document, error) {
	if len(records) == 0 {
		return nil, ErrNoData
	}

	opts = opts.withDefaults()
	groups := GroupByLocation(records)

	doc := &Document{
		Title:       opts.Title,
		TileURL:     opts.TileURL,
		Attribution: opts.Attribution,
		Zoom:        opts.Zoom,
		Center:      Point{Lat: geo.ClampLat(records[0].Lat), Lon: records[0].Lon},
		Markers:     make([]Marker, 0, len(groups)),
		Legend:      make([]Entry, 0, len(records)),
		Line: Polyline{
			Color:   "blue",
			Weight:  2.5,
			Opacity: 1,
			LatLngs: make([][2]float64, 0, len(groups)),
		},
	}

	for _, g := range groups {
		doc.Markers = append(doc.Markers, Marker{
			Lat:     g.Lat,
			Lon:     g.Lon,
			City:    g.Entries[0].City,
			Entries: g.Entries,
			Popup:   popup(g),
		})
		doc.Line.LatLngs = append(doc.Line.LatLngs, [2]float64{g.Lat, g.Lon})
	}

	for i, rec := range records {
		doc.Legend = append(doc.Legend, Entry{
			Step:    i + 1,
			IP:      rec.IP,
			City:    rec.City,
			Country: rec.Country,
		})
	}

	doc.PathKm = geo.PathLength(doc.Line.LatLngs)

	return doc, nil
}

// popup renders the marker popup listing every hop of the group.
func popup(g Group) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<b>Location:</b> %s<br><b>IPs:</b><ul>", html.EscapeString(g.Entries[0].City))
	for _, e := range g.Entries {
		fmt.Fprintf(&b, "<li>Step %d: %s</li>", e.Step, html.EscapeString(e.IP))
	}
	b.WriteString("</ul>")

	return b.String()
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Traceroute map"
	}
	if o.TileURL == "" {
		o.TileURL = config.DefaultTileURL
	}
	if o.Attribution == "" {
		o.Attribution = config.DefaultAttribution
	}
	if o.Zoom <= 0 {
		o.Zoom = config.DefaultZoom
	}

	return o
}
