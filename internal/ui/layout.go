package ui

import (
	"emberpath/internal/events"
	"emberpath/internal/inventory"
)

const (
	margin     = 16
	cellSize   = 48
	cellGap    = 6
	choiceH    = 24
	choiceGap  = 4
	buttonW    = 180
	buttonH    = 32
	offerH     = 20
	lineHeight = 16
)

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// layout is the screen split into hit-testable regions. It is recomputed
// each frame from the screen and inventory size.
type layout struct {
	image     rect
	text      rect
	choices   [events.MaxChoices]rect
	cont      rect
	back      rect
	coinsX    int
	coinsY    int
	equipment []rect
	grid      []rect
	gridW     int
	offersY   int
	offers    []rect
	status    rect
}

func computeLayout(screenW, screenH, gridW, gridH, offerCount int) layout {
	var l layout
	leftW := screenW * 3 / 5

	l.image = rect{margin, margin, leftW - 2*margin, 180}
	l.cont = rect{margin, screenH - margin - buttonH, buttonW, buttonH}
	l.back = rect{margin*2 + buttonW, screenH - margin - buttonH, buttonW, buttonH}

	choicesTop := l.cont.y - margin - events.MaxChoices*(choiceH+choiceGap)
	for i := range l.choices {
		l.choices[i] = rect{margin, choicesTop + i*(choiceH+choiceGap), leftW - 2*margin, choiceH}
	}
	textTop := l.image.y + l.image.h + margin
	l.text = rect{margin, textTop, leftW - 2*margin, choicesTop - margin - textTop}

	rightX := leftW + margin
	rightW := screenW - rightX - margin
	l.coinsX, l.coinsY = rightX, margin

	equipY := margin + 2*lineHeight
	for i := range inventory.EquipSlots {
		l.equipment = append(l.equipment, rect{rightX + i*(cellSize*2+cellGap), equipY, cellSize * 2, cellSize})
	}

	gridY := equipY + cellSize + margin + lineHeight
	l.gridW = gridW
	for row := 0; row < gridH; row++ {
		for col := 0; col < gridW; col++ {
			l.grid = append(l.grid, rect{
				rightX + col*(cellSize+cellGap),
				gridY + row*(cellSize+cellGap),
				cellSize, cellSize,
			})
		}
	}

	l.offersY = gridY + gridH*(cellSize+cellGap) + margin
	for i := 0; i < offerCount; i++ {
		l.offers = append(l.offers, rect{rightX, l.offersY + lineHeight + i*offerH, rightW, offerH - 2})
	}
	l.status = rect{rightX, screenH - margin - lineHeight, rightW, lineHeight}
	return l
}

// hit returns the index of the first region containing the point, or -1
func hit(regions []rect, x, y int) int {
	for i, r := range regions {
		if r.contains(x, y) {
			return i
		}
	}
	return -1
}
