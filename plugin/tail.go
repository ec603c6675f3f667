package plugin

// Tail keeps the end of an overflowing text visible: when the measured text
// is taller than the box, drawing starts above the box so that the last
// lines land inside it.
type Tail struct{ Base }

func (Tail) Clone() Plugin { return Tail{} }

func (Tail) OnStartRender(ctx *RenderContext) {
	if overflow := ctx.TextHeight - ctx.Bounds.Dy(); overflow > 0 {
		ctx.Y = ctx.Bounds.Min.Y - overflow
	}
}
