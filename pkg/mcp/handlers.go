package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/uitokens/pkg/color"
	"github.com/gnana997/uitokens/pkg/token"
)

type collectionInfo struct {
	Name        string   `json:"name"`
	Modes       []string `json:"modes"`
	DefaultMode string   `json:"default_mode"`
	TokenCount  int      `json:"token_count"`
}

type tokenInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Value    string `json:"value,omitempty"`
	Alias    string `json:"alias,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
	Error    string `json:"error,omitempty"`
	Hidden   bool   `json:"hidden,omitempty"`
}

type referenceInfo struct {
	Reference  string `json:"reference"`
	Collection string `json:"collection"`
	Token      string `json:"token"`
	Mode       string `json:"mode"`
	Type       string `json:"type"`
	Value      string `json:"value"`
	Target     string `json:"target,omitempty"`
	Fallback   bool   `json:"fallback,omitempty"`
}

type shadeInfo struct {
	Step int    `json:"step"`
	Hex  string `json:"hex"`
}

type contrastInfo struct {
	Background string  `json:"background"`
	Choice     string  `json:"choice"`
	Color      string  `json:"color"`
	RatioLight float64 `json:"ratio_light"`
	RatioDark  float64 `json:"ratio_dark"`
}

func (s *Server) handleListCollections(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res := s.Result()
	cols := res.Library.Collections()
	out := make([]collectionInfo, 0, len(cols))
	for _, c := range cols {
		out = append(out, collectionInfo{
			Name:        c.Name,
			Modes:       c.Modes,
			DefaultMode: c.DefaultMode(),
			TokenCount:  len(c.Tokens),
		})
	}
	return jsonResult(out)
}

func (s *Server) handleGetTokens(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("collection")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pattern := req.GetString("pattern", "")
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return mcp.NewToolResultError(fmt.Sprintf("invalid pattern: %s", pattern)), nil
	}

	res := s.Result()
	col, ok := res.Library.Collection(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("collection not found: %s (available: %s)",
			name, strings.Join(res.Library.Names(), ", "))), nil
	}
	mode := req.GetString("mode", col.DefaultMode())
	if !col.HasMode(mode) {
		return mcp.NewToolResultError(fmt.Sprintf("collection %s has no mode %q (modes: %s)",
			name, mode, strings.Join(col.Modes, ", "))), nil
	}

	out := make([]tokenInfo, 0, len(col.Tokens))
	for _, t := range col.Tokens {
		if pattern != "" {
			if matched, _ := doublestar.Match(pattern, t.Name); !matched {
				continue
			}
		}
		info := tokenInfo{Name: t.Name, Type: string(t.Kind), Hidden: t.Hidden}
		if b, ok := t.Binding(mode); ok {
			if a, ok := b.Alias(); ok {
				info.Alias = a.String()
			}
		}
		if r, ok := res.Lookup(name, t.Name, mode); ok {
			if r.OK {
				info.Value = r.Value.String()
			}
			info.Fallback = r.Fallback
			if r.Err != nil {
				info.Error = r.Err.Error()
			}
		}
		out = append(out, info)
	}
	return jsonResult(out)
}

func (s *Server) handleResolveReference(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("reference")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	r, err := s.Result().Reference(ref, req.GetString("mode", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !r.OK {
		return mcp.NewToolResultError(fmt.Sprintf("%s does not resolve: %v", ref, r.Err)), nil
	}

	info := referenceInfo{
		Reference:  token.FormatReference(r.Collection, r.Token),
		Collection: r.Collection,
		Token:      r.Token,
		Mode:       r.Mode,
		Type:       string(r.Kind),
		Value:      r.Value.String(),
		Fallback:   r.Fallback,
	}
	if r.IsAlias {
		info.Target = r.Target.String()
	}
	return jsonResult(info)
}

func (s *Server) handleGenerateShades(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hex, err := req.RequireString("hex")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	shades, err := s.shadesFor(hex, req.GetBool("fine", false))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := make([]shadeInfo, len(shades))
	for i, sh := range shades {
		out[i] = shadeInfo{Step: sh.Step, Hex: sh.Color.Hex()}
	}
	return jsonResult(out)
}

func (s *Server) handleContrastColor(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bgHex, err := req.RequireString("background")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var bg, light, dark color.RGBA
	for _, p := range []struct {
		dst *color.RGBA
		hex string
	}{
		{&bg, bgHex},
		{&light, req.GetString("light", "#ffffff")},
		{&dark, req.GetString("dark", "#000000")},
	} {
		c, err := color.ParseHex(p.hex)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		*p.dst = c
	}

	choice := color.ContrastColor(bg, light, dark)
	picked := light
	if choice == color.Dark {
		picked = dark
	}
	return jsonResult(contrastInfo{
		Background: bg.Hex(),
		Choice:     string(choice),
		Color:      picked.Hex(),
		RatioLight: round2(color.ContrastRatio(bg, light)),
		RatioDark:  round2(color.ContrastRatio(bg, dark)),
	})
}

// shadesFor returns a memoized ramp for hex.
func (s *Server) shadesFor(hex string, fine bool) ([]color.Shade, error) {
	base, err := color.ParseHex(hex)
	if err != nil {
		return nil, err
	}
	key := shadeKey{hex: base.Hex(), fine: fine}
	if shades, ok := s.shades.Get(key); ok {
		return shades, nil
	}

	steps := color.ShadeSteps
	if fine {
		steps = color.FineSteps
	}
	shades := color.ShadesOf(base, steps)
	s.shades.Add(key, shades)
	return shades, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

