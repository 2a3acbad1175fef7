package ui

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"emberpath/internal/events"
	"emberpath/internal/flow"
	"emberpath/internal/graphics"
	"emberpath/internal/inventory"
	"emberpath/internal/items"
)

var (
	colorBackground = color.RGBA{18, 16, 22, 255}
	colorPanel      = color.RGBA{40, 36, 48, 255}
	colorPanelHover = color.RGBA{64, 58, 78, 255}
	colorBorder     = color.RGBA{110, 96, 70, 255}
	colorText       = color.RGBA{230, 222, 200, 255}
	colorDim        = color.RGBA{120, 114, 104, 255}
	colorCoins      = color.RGBA{240, 200, 80, 255}
	colorStatus     = color.RGBA{220, 120, 90, 255}
	colorLocked     = color.RGBA{0, 0, 0, 150}
)

// Draw renders the current view, the inventory and any store offers
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	ctrl := g.session.Controller
	view := ctrl.View()
	mx, my := ebiten.CursorPosition()

	g.drawScene(screen, view)
	g.drawChoices(screen, view, mx, my)
	g.drawButtons(screen, view, mx, my)
	g.drawInventory(screen, view, mx, my)
	g.drawStore(screen, mx, my)

	if g.status != "" && time.Now().Before(g.statusUntil) {
		drawText(screen, g.status, g.layout.status.x, g.layout.status.y, colorStatus)
	}
}

func (g *Game) drawScene(screen *ebiten.Image, view flow.View) {
	l := g.layout
	if g.images != nil {
		img, _ := g.images.Get(view.Image, graphics.KindScene)
		drawFitted(screen, img, l.image)
	} else {
		drawFilledRect(screen, l.image.x, l.image.y, l.image.w, l.image.h, colorPanel)
	}
	drawRectBorder(screen, l.image.x, l.image.y, l.image.w, l.image.h, 1, colorBorder)

	maxLines := l.text.h / lineHeight
	lines := wrapText(view.Text, l.text.w)
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	for i, line := range lines {
		drawText(screen, line, l.text.x, l.text.y+i*lineHeight, colorText)
	}
}

func (g *Game) drawChoices(screen *ebiten.Image, view flow.View, mx, my int) {
	binds := g.session.Keybinds.Slots()
	choices := view.Choices
	if len(choices) > events.MaxChoices {
		choices = choices[:events.MaxChoices]
	}
	for i, r := range g.layout.choices {
		bg := colorPanel
		if i < len(choices) && r.contains(mx, my) {
			bg = colorPanelHover
		}
		drawFilledRect(screen, r.x, r.y, r.w, r.h, bg)
		label := fmt.Sprintf("[%s]", keyLabel(binds[i]))
		if i < len(choices) {
			drawText(screen, label+" "+choices[i].Text, r.x+6, r.y+5, colorText)
		} else {
			drawText(screen, label, r.x+6, r.y+5, colorDim)
		}
	}
}

func (g *Game) drawButtons(screen *ebiten.Image, view flow.View, mx, my int) {
	binds := g.session.Keybinds
	drawButton(screen, g.layout.cont, view.Continue, keyLabel(binds.Continue()), mx, my)
	drawButton(screen, g.layout.back, view.Back, keyLabel(binds.Back()), mx, my)
}

func drawButton(screen *ebiten.Image, r rect, b *events.ButtonConfig, key string, mx, my int) {
	if b == nil {
		return
	}
	bg := colorPanel
	if r.contains(mx, my) {
		bg = colorPanelHover
	}
	drawFilledRect(screen, r.x, r.y, r.w, r.h, bg)
	drawRectBorder(screen, r.x, r.y, r.w, r.h, 1, colorBorder)
	label := fmt.Sprintf("%s [%s]", b.Text, key)
	w := font.MeasureString(basicfont.Face7x13, label).Round()
	drawText(screen, label, r.x+(r.w-w)/2, r.y+(r.h-lineHeight)/2+2, colorText)
}

func (g *Game) drawInventory(screen *ebiten.Image, view flow.View, mx, my int) {
	ctrl := g.session.Controller
	l := g.layout
	drawText(screen, fmt.Sprintf("Coins: %d", ctrl.Coins()), l.coinsX, l.coinsY, colorCoins)

	equipped := ctrl.Equipment()
	for i, slot := range inventory.EquipSlots {
		if i >= len(l.equipment) {
			break
		}
		r := l.equipment[i]
		drawFilledRect(screen, r.x, r.y, r.w, r.h, colorPanel)
		drawRectBorder(screen, r.x, r.y, r.w, r.h, 1, colorBorder)
		drawText(screen, slotLabel(slot), r.x+4, r.y+2, colorDim)
		if it := equipped[slot]; it != nil {
			drawText(screen, truncate(it.Name, r.w-8), r.x+4, r.y+r.h-lineHeight-2, colorText)
		}
	}

	var hovered *items.Item
	for i, it := range ctrl.Slots() {
		if i >= len(l.grid) {
			break
		}
		r := l.grid[i]
		bg := colorPanel
		if r.contains(mx, my) {
			bg = colorPanelHover
			hovered = it
		}
		if i == g.dragFrom {
			bg = colorBorder
		}
		drawFilledRect(screen, r.x, r.y, r.w, r.h, bg)
		if it == nil {
			continue
		}
		if g.images != nil {
			icon, _ := g.images.Get(it.Icon, graphics.KindItem)
			drawFitted(screen, icon, rect{r.x + 4, r.y + 4, r.w - 8, r.h - 8})
		}
		drawText(screen, truncate(it.Name, r.w-4), r.x+2, r.y+2, colorText)
		if it.Stackable() {
			qty := fmt.Sprintf("%d", it.Count())
			w := font.MeasureString(basicfont.Face7x13, qty).Round()
			drawText(screen, qty, r.x+r.w-w-2, r.y+r.h-lineHeight, colorCoins)
		}
	}

	if !view.InventoryAccessible && len(l.grid) > 0 {
		first, last := l.grid[0], l.grid[len(l.grid)-1]
		drawFilledRect(screen, first.x, first.y, last.x+last.w-first.x, last.y+last.h-first.y, colorLocked)
		drawText(screen, "Locked", first.x+4, first.y+4, colorStatus)
	} else if hovered != nil {
		drawText(screen, hovered.Name+" - "+string(hovered.DefaultAction), l.coinsX, l.coinsY+lineHeight, colorDim)
	}
}

func (g *Game) drawStore(screen *ebiten.Image, mx, my int) {
	ctrl := g.session.Controller
	s, ok := ctrl.CurrentStore()
	if !ok {
		return
	}
	offers, err := ctrl.Offers()
	if err != nil {
		return
	}
	l := g.layout
	drawText(screen, s.Name+" (click to buy, shift for 5)", l.coinsX, l.offersY, colorCoins)
	for i, o := range offers {
		if i >= len(l.offers) {
			break
		}
		r := l.offers[i]
		if r.contains(mx, my) {
			drawFilledRect(screen, r.x, r.y, r.w, r.h, colorPanelHover)
		}
		stock := "unlimited"
		if o.Limited {
			stock = fmt.Sprintf("%d left", o.Stock)
		}
		clr := colorText
		if !o.Available() {
			clr = colorDim
			stock = "sold out"
		}
		drawText(screen, fmt.Sprintf("%-16s %4dc  %s", truncate(g.itemName(o.ItemID), 16*7), o.Price, stock), r.x+4, r.y+2, clr)
	}
}

func slotLabel(slot inventory.EquipSlot) string {
	name := string(slot)
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// drawText draws s with its top-left corner at x, y
func drawText(screen *ebiten.Image, s string, x, y int, clr color.Color) {
	face := basicfont.Face7x13
	ebitext.Draw(screen, s, face, x, y+face.Ascent, clr)
}

func drawFitted(screen, img *ebiten.Image, r rect) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	sx := float64(r.w) / float64(b.Dx())
	sy := float64(r.h) / float64(b.Dy())
	scale := sx
	if sy < scale {
		scale = sy
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(r.x)+(float64(r.w)-float64(b.Dx())*scale)/2, float64(r.y)+(float64(r.h)-float64(b.Dy())*scale)/2)
	screen.DrawImage(img, op)
}

func drawFilledRect(dst *ebiten.Image, x, y, w, h int, clr color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	vector.DrawFilledRect(dst, float32(x), float32(y), float32(w), float32(h), clr, false)
}

// drawRectBorder draws a rectangle border of given thickness and color
func drawRectBorder(dst *ebiten.Image, x, y, w, h, thickness int, clr color.Color) {
	vector.DrawFilledRect(dst, float32(x-thickness), float32(y-thickness), float32(w+2*thickness), float32(thickness), clr, false)
	vector.DrawFilledRect(dst, float32(x-thickness), float32(y+h), float32(w+2*thickness), float32(thickness), clr, false)
	vector.DrawFilledRect(dst, float32(x-thickness), float32(y), float32(thickness), float32(h), clr, false)
	vector.DrawFilledRect(dst, float32(x+w), float32(y), float32(thickness), float32(h), clr, false)
}

// wrapText breaks s into lines no wider than width pixels. Explicit line
// breaks are kept.
func wrapText(s string, width int) []string {
	face := basicfont.Face7x13
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if font.MeasureString(face, candidate).Round() > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}

// truncate shortens s to fit width pixels
func truncate(s string, width int) string {
	face := basicfont.Face7x13
	if font.MeasureString(face, s).Round() <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && font.MeasureString(face, string(r)+".").Round() > width {
		r = r[:len(r)-1]
	}
	return string(r) + "."
}
