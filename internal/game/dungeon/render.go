package dungeon

import "strings"

// Glyphs used by Render.
const (
	GlyphStart      = 'S'
	GlyphTarget     = 'T'
	GlyphRoom       = '#'
	GlyphHorizontal = '-'
	GlyphVertical   = '|'
	GlyphEmpty      = ' '
)

// Render draws l as text, north up. Rooms sit on even columns and rows with
// hallways between them.
//
// Precondition: l must have at least the start room.
// Postcondition: Lines carry no trailing spaces; the result ends with a newline.
func (l *Layout) Render(catalog *Catalog) string {
	minC, maxC := l.Bounds()
	w := (maxC.X-minC.X)*2 + 1
	h := (maxC.Y-minC.Y)*2 + 1

	grid := make([][]rune, h)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(string(GlyphEmpty), w))
	}
	at := func(c Coord, dx, dy int) (row, col int) {
		return (maxC.Y-c.Y)*2 - dy, (c.X-minC.X)*2 + dx
	}

	for _, p := range l.Rooms {
		glyph := rune(GlyphRoom)
		switch p.Template {
		case catalog.Start():
			glyph = GlyphStart
		case catalog.Target():
			glyph = GlyphTarget
		}
		row, col := at(p.Coord, 0, 0)
		grid[row][col] = glyph

		if p.IsStart() {
			continue
		}
		off := p.Door.Direction.Offset()
		row, col = at(p.Door.Coord, off.X, off.Y)
		if p.Door.IsHorizontal() {
			grid[row][col] = GlyphHorizontal
		} else {
			grid[row][col] = GlyphVertical
		}
	}

	var b strings.Builder
	for _, line := range grid {
		b.WriteString(strings.TrimRight(string(line), string(GlyphEmpty)))
		b.WriteByte('\n')
	}
	return b.String()
}
