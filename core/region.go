package core

// NaturalSize is the Width or Height of a Region whose size should be
// taken from its image when the Region is drawn.  The core never
// resolves it.
const NaturalSize = -1

// Region is a named rectangular placeholder that displays an image.
//
// An FSM owns its Regions.  Actions refer to Regions only by name (and
// by the non-owning reference established by binding).
type Region struct {
	// Name identifies this Region within its FSM.
	Name string `json:"name"`

	// ImageLoc is where the Region's current image is loaded
	// from.  Empty means no image.
	ImageLoc string `json:"imageLoc,omitempty" yaml:"imageLoc,omitempty"`

	X float64 `json:"x"`
	Y float64 `json:"y"`

	// Width and Height can be NaturalSize.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRegion makes a Region with natural width and height.
func NewRegion(name, imageLoc string, x, y float64) *Region {
	return &Region{
		Name:     name,
		ImageLoc: imageLoc,
		X:        x,
		Y:        y,
		Width:    NaturalSize,
		Height:   NaturalSize,
	}
}

// Natural reports whether either dimension should come from the
// image.
func (r *Region) Natural() bool {
	return r.Width < 0 || r.Height < 0
}

// Contains reports whether the point, which is in the same coordinate
// system as the Region's X and Y, is inside this Region.
//
// A dimension that is NaturalSize is treated as zero.
func (r *Region) Contains(x, y float64) bool {
	w, h := r.Width, r.Height
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return r.X <= x && x < r.X+w && r.Y <= y && y < r.Y+h
}

// ImageChange records one Region's image changing.
type ImageChange struct {
	Region string `json:"region"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// RegionIndex maps region names to Regions.  The binding pass builds
// one.
type RegionIndex map[string]*Region

// NewRegionIndex indexes the given Regions.  When names repeat, the
// first Region wins and the duplicates are returned.
func NewRegionIndex(regions []*Region) (RegionIndex, []*Region) {
	var (
		index = make(RegionIndex, len(regions))
		dups  []*Region
	)
	for _, r := range regions {
		if r == nil {
			continue
		}
		if _, have := index[r.Name]; have {
			dups = append(dups, r)
			continue
		}
		index[r.Name] = r
	}
	return index, dups
}
