package generator

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gnana997/uitokens/pkg/scale"
	"github.com/gnana997/uitokens/pkg/token"
)

// BuildBreakpoints emits one mode per size key with widths, column widths,
// the content-width table and division widths. Division widths alias the
// content width of their resolved span.
func BuildBreakpoints(r *Run) (*token.Collection, error) {
	bps, err := r.Breakpoints()
	if err != nil {
		return nil, err
	}

	modes := make([]string, len(bps))
	for i, bp := range bps {
		modes[i] = bp.Key
	}
	b := token.NewBuilder(Breakpoints, modes...)
	cfg := r.Settings.Breakpoints

	for _, bp := range bps {
		m := bp.Key
		b.Number("columns", m, float64(bp.Columns))
		b.Number("min-width", m, bp.MinWidth, token.ScopeWidthHeight)
		b.Number("max-width", m, bp.MaxWidth, token.ScopeWidthHeight)
		b.Number("gutter", m, cfg.Gutter, token.ScopeGap)
		b.Number("padding", m, cfg.HorizontalPadding, token.ScopeGap)
		b.Number("column/min-width", m, bp.MinColumnWidth, token.ScopeWidthHeight)
		b.Number("column/max-width", m, bp.MaxColumnWidth, token.ScopeWidthHeight)

		for _, cw := range bp.Content {
			n := strconv.Itoa(cw.Columns)
			b.Number(token.Join("content", n, "min-width"), m, cw.MinWidth, token.ScopeWidthHeight)
			b.Number(token.Join("content", n, "max-width"), m, cw.MaxWidth, token.ScopeWidthHeight)
		}

		for _, dw := range bp.Divisions {
			span := strconv.Itoa(dw.Columns)
			base := token.Join("division", dw.Division.Name)
			b.Number(token.Join(base, "columns"), m, float64(dw.Columns))
			b.Alias(token.Join(base, "min-width"), token.KindNumber, m,
				token.AliasTo(Breakpoints, token.Join("content", span, "min-width")), token.ScopeWidthHeight)
			b.Alias(token.Join(base, "max-width"), token.KindNumber, m,
				token.AliasTo(Breakpoints, token.Join("content", span, "max-width")), token.ScopeWidthHeight)
		}
	}

	b.Token("columns", token.KindNumber).Hide()
	return b.Build()
}

// DeviceMode names a Devices mode: "{device}/{orientation}/{size}".
func DeviceMode(device string, o scale.Orientation, size string) string {
	return token.Join(device, string(o), size)
}

type deviceMode struct {
	name        string
	device      string
	orientation scale.Orientation
	bp          scale.Breakpoint
}

func deviceModes(r *Run) ([]deviceMode, error) {
	bps, err := r.Breakpoints()
	if err != nil {
		return nil, err
	}
	var out []deviceMode
	for _, bp := range bps {
		device := r.Settings.DeviceFor(bp.Key)
		for _, o := range scale.Orientations {
			out = append(out, deviceMode{
				name:        DeviceMode(device, o, bp.Key),
				device:      device,
				orientation: o,
				bp:          bp,
			})
		}
	}
	return out, nil
}

func modeNames(dms []deviceMode) []string {
	names := make([]string, len(dms))
	for i, dm := range dms {
		names[i] = dm.name
	}
	return names
}

// BuildDevices emits one mode per device, orientation and size. Viewport
// widths alias Breakpoints in the matching size mode; heights are literal
// per aspect ratio.
func BuildDevices(r *Run) (*token.Collection, error) {
	dms, err := deviceModes(r)
	if err != nil {
		return nil, err
	}

	b := token.NewBuilder(Devices, modeNames(dms)...)
	for _, dm := range dms {
		m, size := dm.name, dm.bp.Key
		b.String("device", m, dm.device, token.ScopeString)
		b.String("orientation", m, string(dm.orientation), token.ScopeString)
		b.String("breakpoint", m, size, token.ScopeString)
		b.Alias("columns", token.KindNumber, m, token.AliasIn(Breakpoints, "columns", size))
		b.Alias("viewport/width/min", token.KindNumber, m, token.AliasIn(Breakpoints, "min-width", size), token.ScopeWidthHeight)
		b.Alias("viewport/width/max", token.KindNumber, m, token.AliasIn(Breakpoints, "max-width", size), token.ScopeWidthHeight)

		for _, h := range dm.bp.Heights {
			if h.Orientation != dm.orientation {
				continue
			}
			base := token.Join("viewport", "height", h.Ratio.Name)
			b.Number(token.Join(base, "min"), m, h.MinHeight, token.ScopeWidthHeight)
			b.Number(token.Join(base, "max"), m, h.MaxHeight, token.ScopeWidthHeight)
		}
	}
	return b.Build()
}

// BuildContentHeight shares the Devices modes. Content heights are the
// viewport heights less the configured offset; each ratio also names the
// density tier its minimum content height falls in.
func BuildContentHeight(r *Run) (*token.Collection, error) {
	dms, err := deviceModes(r)
	if err != nil {
		return nil, err
	}
	ds, err := r.Densities()
	if err != nil {
		return nil, err
	}
	offset := r.Settings.OffsetHeight

	b := token.NewBuilder(ContentHeight, modeNames(dms)...)
	for _, dm := range dms {
		m := dm.name
		b.Number("offset", m, offset, token.ScopeWidthHeight)

		for _, h := range dm.bp.Heights {
			if h.Orientation != dm.orientation {
				continue
			}
			vp := token.Join("viewport", "height", h.Ratio.Name)
			b.Alias(token.Join(vp, "min"), token.KindNumber, m, token.AliasTo(Devices, token.Join(vp, "min")), token.ScopeWidthHeight)
			b.Alias(token.Join(vp, "max"), token.KindNumber, m, token.AliasTo(Devices, token.Join(vp, "max")), token.ScopeWidthHeight)

			minH := math.Max(0, h.MinHeight-offset)
			maxH := math.Max(0, h.MaxHeight-offset)
			base := token.Join("content", "height", h.Ratio.Name)
			b.Number(token.Join(base, "min"), m, minH, token.ScopeWidthHeight)
			b.Number(token.Join(base, "max"), m, maxH, token.ScopeWidthHeight)

			d, ok := scale.ModeForHeight(ds, minH)
			if !ok {
				return nil, fmt.Errorf("no density tier for height %v", minH)
			}
			b.String(token.Join(base, "density"), m, d.Name, token.ScopeString)
		}
	}
	return b.Build()
}
