package gallery

import (
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func ExampleCarousel() {
	c := Carousel{Len: 3}
	c.Prev()
	fmt.Println(c.Index)
	c.Next()
	c.Next()
	fmt.Println(c.Index)
	c.Open(10)
	fmt.Println(c.Index, c.NextIndex(), c.PrevIndex())
	// Output:
	// 2
	// 1
	// 2 0 1
}

func TestEmptyCarousel(t *testing.T) {
	var c Carousel
	c.Next()
	c.Prev()
	c.Open(4)
	if c.Index != 0 {
		t.Errorf("empty carousel moved to %d", c.Index)
	}
}

func TestPhotos(t *testing.T) {
	fsys := fstest.MapFS{
		"images/redfish14.jpeg":  {},
		"images/grouper1.JPG":    {},
		"images/scallop2.jpeg":   {},
		"images/notes.txt":       {},
		"images/thumbs/tiny.png": {},
	}
	got, err := Photos(fsys, "images")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"images/grouper1.JPG", "images/redfish14.jpeg", "images/scallop2.jpeg"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("photos (-want,+got):\n%s", diff)
	}

	if _, err := Photos(fsys, "missing"); err == nil {
		t.Errorf("expected error for a missing dir")
	}
}
