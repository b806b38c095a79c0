// pkg/render/terminal.go
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/opd-ai/go-clothsim/pkg/physics"
)

// TerminalRenderer provides a simple ASCII-based rendering for terminals.
// The scene is projected orthographically onto the x-y plane (depth is
// dropped), with y growing upward on screen.
type TerminalRenderer struct {
	width     int
	height    int
	buffer    [][]rune
	scale     float32
	centerPos physics.Vector3
	out       io.Writer
}

// NewTerminalRenderer creates a new terminal renderer with the specified
// dimensions. scale is world units per character cell.
func NewTerminalRenderer(width, height int, scale float32) *TerminalRenderer {
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	return &TerminalRenderer{
		width:  width,
		height: height,
		buffer: buffer,
		scale:  scale,
		out:    os.Stdout,
	}
}

// SetCenter sets the world position mapped to the middle of the view.
func (r *TerminalRenderer) SetCenter(pos physics.Vector3) {
	r.centerPos = pos
}

// worldToScreen converts world coordinates to screen coordinates
func (r *TerminalRenderer) worldToScreen(pos physics.Vector3) (int, int) {
	screenX := int((pos.X-r.centerPos.X)/r.scale + float32(r.width)/2)
	screenY := int(-(pos.Y-r.centerPos.Y)/r.scale + float32(r.height)/2)
	return screenX, screenY
}

// Clear implements Renderer
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
		}
	}
}

// Present implements Renderer
func (r *TerminalRenderer) Present() {
	// Clear terminal
	fmt.Fprint(r.out, "\033[H\033[2J")

	fmt.Fprintln(r.out, "+"+strings.Repeat("-", r.width)+"+")
	for y := range r.buffer {
		fmt.Fprint(r.out, "|")
		for x := range r.buffer[y] {
			fmt.Fprint(r.out, string(r.buffer[y][x]))
		}
		fmt.Fprintln(r.out, "|")
	}
	fmt.Fprintln(r.out, "+"+strings.Repeat("-", r.width)+"+")
}

// RenderSphere implements Renderer. Spheres are drawn as filled circles of
// screen cells covering the projected radius.
func (r *TerminalRenderer) RenderSphere(position physics.Vector3, radius float32) {
	cx, cy := r.worldToScreen(position)
	cells := int(radius / r.scale)
	if cells < 0 {
		cells = 0
	}

	for dy := -cells; dy <= cells; dy++ {
		for dx := -cells; dx <= cells; dx++ {
			if dx*dx+dy*dy > cells*cells {
				continue
			}
			x, y := cx+dx, cy+dy
			if x >= 0 && x < r.width && y >= 0 && y < r.height {
				r.buffer[y][x] = 'O'
			}
		}
	}
}

// RenderClothParticle implements Renderer. Cloth particles never overwrite
// sphere cells so the spheres stay visible through the sheet.
func (r *TerminalRenderer) RenderClothParticle(position physics.Vector3) {
	x, y := r.worldToScreen(position)

	if x >= 0 && x < r.width && y >= 0 && y < r.height && r.buffer[y][x] == ' ' {
		r.buffer[y][x] = '.'
	}
}
