package document

const (
	DefaultCanvasWidth  = 1080
	DefaultCanvasHeight = 1080
	DefaultGridSize     = 20
)

// New creates an empty document with the given canvas size.
func New(width, height float64) *Document {
	if width <= 0 {
		width = DefaultCanvasWidth
	}
	if height <= 0 {
		height = DefaultCanvasHeight
	}
	return &Document{
		Canvas: Canvas{Width: width, Height: height},
		View: View{
			GridSize: DefaultGridSize,
			Zoom:     1,
		},
		Objects: []Object{},
	}
}

// Len returns the number of objects.
func (d *Document) Len() int {
	return len(d.Objects)
}

// Index returns the paint index of the object with the given id, or -1.
func (d *Document) Index(id string) int {
	for i := range d.Objects {
		if d.Objects[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns a pointer into the object sequence. The pointer is invalidated by
// any structural mutation.
func (d *Document) Find(id string) (*Object, bool) {
	i := d.Index(id)
	if i < 0 {
		return nil, false
	}
	return &d.Objects[i], true
}

// Has reports whether an object with the id exists.
func (d *Document) Has(id string) bool {
	return d.Index(id) >= 0
}

// Append adds obj on top of the paint order. Callers ensure the id is unique.
func (d *Document) Append(obj Object) {
	d.Objects = append(d.Objects, obj)
}

// Remove deletes the object with the given id and reports whether it existed.
func (d *Document) Remove(id string) (Object, bool) {
	i := d.Index(id)
	if i < 0 {
		return Object{}, false
	}
	removed := d.Objects[i]
	d.Objects = append(d.Objects[:i], d.Objects[i+1:]...)
	return removed, true
}

// Move relocates the object at from so that it ends up at index to.
// Out of range or equal indices leave the document untouched.
func (d *Document) Move(from, to int) bool {
	n := len(d.Objects)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return false
	}
	obj := d.Objects[from]
	if from < to {
		copy(d.Objects[from:to], d.Objects[from+1:to+1])
	} else {
		copy(d.Objects[to+1:from+1], d.Objects[to:from])
	}
	d.Objects[to] = obj
	return true
}

// IDs returns object ids in paint order.
func (d *Document) IDs() []string {
	ids := make([]string, len(d.Objects))
	for i := range d.Objects {
		ids[i] = d.Objects[i].ID
	}
	return ids
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{
		Canvas:   d.Canvas,
		View:     d.View,
		Objects:  make([]Object, len(d.Objects)),
		Modified: d.Modified,
	}
	for i := range d.Objects {
		out.Objects[i] = d.Objects[i].Clone()
	}
	return out
}
