package document

// NewSampleDocument builds a square cover-art starter: a locked background, an
// accent bar, a badge circle and a title.
func NewSampleDocument() *Document {
	doc := New(DefaultCanvasWidth, DefaultCanvasHeight)

	background := NewBackground("#1a1a2e", doc.Canvas.Width, doc.Canvas.Height)

	bar := NewRect(80, 760, 920, 16, "#e94560")
	bar.Name = "Accent bar"
	bar.Shape.CornerRadius = 8

	badge := NewCircle(820, 80, 90, "#0f3460")
	badge.Style.Stroke = "#e94560"
	badge.Style.StrokeWidth = 6

	title := NewText("Untitled Cover", 80, 620, 96, "#ffffff")
	title.Text.FontWeight = "bold"

	subtitle := NewText("Volume 1", 80, 820, 48, "#f5a623")

	doc.Append(background)
	doc.Append(bar)
	doc.Append(badge)
	doc.Append(title)
	doc.Append(subtitle)
	return doc
}
