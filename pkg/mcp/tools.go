package mcp

import "github.com/mark3labs/mcp-go/mcp"

// Tool names.
const (
	ToolListCollections  = "list_collections"
	ToolGetTokens        = "get_tokens"
	ToolResolveReference = "resolve_reference"
	ToolGenerateShades   = "generate_shades"
	ToolContrastColor    = "contrast_color"
)

func listCollectionsTool() mcp.Tool {
	return mcp.NewTool(ToolListCollections,
		mcp.WithDescription("Lists the generated token collections with their modes and token counts."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func getTokensTool() mcp.Tool {
	return mcp.NewTool(ToolGetTokens,
		mcp.WithDescription("Returns the resolved tokens of one collection in one mode. "+
			"Aliases report their target reference alongside the final value."),
		mcp.WithString("collection", mcp.Required(), mcp.Description("Collection name, e.g. Theme or Palette")),
		mcp.WithString("mode", mcp.Description("Mode name; defaults to the collection's first mode")),
		mcp.WithString("pattern", mcp.Description("Glob over token paths, e.g. primary/** or */shade/500")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func resolveReferenceTool() mcp.Tool {
	return mcp.NewTool(ToolResolveReference,
		mcp.WithDescription("Resolves a {Collection.path} reference to its final value."),
		mcp.WithString("reference", mcp.Required(), mcp.Description("Reference such as {Theme.primary.default}")),
		mcp.WithString("mode", mcp.Description("Mode name; defaults to the collection's first mode")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func generateShadesTool() mcp.Tool {
	return mcp.NewTool(ToolGenerateShades,
		mcp.WithDescription("Generates a perceptual shade ramp from a hex color. Step 500 is the input color."),
		mcp.WithString("hex", mcp.Required(), mcp.Description("Base color as #rgb, #rrggbb or #rrggbbaa")),
		mcp.WithBoolean("fine", mcp.Description("Use 19 steps in increments of 50 instead of 11")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func contrastColorTool() mcp.Tool {
	return mcp.NewTool(ToolContrastColor,
		mcp.WithDescription("Picks the light or dark foreground with the higher WCAG contrast on a background."),
		mcp.WithString("background", mcp.Required(), mcp.Description("Background hex color")),
		mcp.WithString("light", mcp.Description("Light candidate; defaults to #ffffff")),
		mcp.WithString("dark", mcp.Description("Dark candidate; defaults to #000000")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}
