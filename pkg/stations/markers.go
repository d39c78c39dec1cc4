package stations

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	// FocusZoom is the zoom level used when focusing a single launch.
	FocusZoom = 11
	// BoundsPad grows the overview bounds by this fraction on every side.
	BoundsPad = 0.25
)

// Markers is the table as GeoJSON points, one feature per launch, for the
// map script.
func Markers(t Table) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, l := range t {
		f := geojson.NewFeature(l.Point())
		f.ID = l.Key
		f.Properties["key"] = l.Key
		f.Properties["label"] = l.Label
		f.Properties["address"] = l.Address
		f.Properties["noaa_station"] = string(l.NOAAStation)
		fc.Append(f)
	}
	return fc
}

// Bounds is the box around every launch, grown by pad times its size on each
// side so markers do not sit on the edge of the map.
func Bounds(t Table, pad float64) orb.Bound {
	mp := make(orb.MultiPoint, len(t))
	for i, l := range t {
		mp[i] = l.Point()
	}
	b := mp.Bound()
	dx := (b.Max.X() - b.Min.X()) * pad
	dy := (b.Max.Y() - b.Min.Y()) * pad
	return orb.Bound{
		Min: orb.Point{b.Min.X() - dx, b.Min.Y() - dy},
		Max: orb.Point{b.Max.X() + dx, b.Max.Y() + dy},
	}
}

// View is where the map should look.
type View struct {
	Center orb.Point `json:"center"`
	Zoom   int       `json:"zoom"`
	// Popup is the marker key whose popup should open, if any.
	Popup string `json:"popup,omitempty"`
}

// Focus is the view centered on one launch with its popup open.
func (t Table) Focus(key string) (View, error) {
	l, err := t.Lookup(key)
	if err != nil {
		return View{}, err
	}
	return View{Center: l.Point(), Zoom: FocusZoom, Popup: l.Key}, nil
}
