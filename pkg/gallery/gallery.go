// Package gallery lists the site's photos and steps through them the way the
// lightbox and the captain sliders do, wrapping at both ends.
package gallery

import (
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Carousel is a position within n photos.
type Carousel struct {
	Len   int
	Index int
}

// Open moves to i, clamped into range.
func (c *Carousel) Open(i int) {
	if c.Len <= 0 {
		c.Index = 0
		return
	}
	c.Index = min(max(i, 0), c.Len-1)
}

// Next advances one photo, wrapping past the end.
func (c *Carousel) Next() {
	if c.Len <= 0 {
		return
	}
	c.Index = (c.Index + 1) % c.Len
}

// Prev goes back one photo, wrapping past the start.
func (c *Carousel) Prev() {
	if c.Len <= 0 {
		return
	}
	c.Index = (c.Index - 1 + c.Len) % c.Len
}

// NextIndex and PrevIndex are where Next and Prev would land, for links.
func (c Carousel) NextIndex() int {
	c.Next()
	return c.Index
}

func (c Carousel) PrevIndex() int {
	c.Prev()
	return c.Index
}

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Photos lists the images directly under dir in fsys, sorted by name, as
// slash paths relative to fsys.
func Photos(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	var photos []string
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(path.Ext(e.Name()))] {
			continue
		}
		photos = append(photos, path.Join(dir, e.Name()))
	}
	sort.Strings(photos)
	return photos, nil
}
