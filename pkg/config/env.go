package config

// Environment variable keys. Lists are comma separated; pairs use ':' for
// numbers and '=' for colors, e.g. "xs:3,sm:4" and "primary=#3b82f6".
const (
	// Grid
	EnvMinColumnWidth    = "UITOKENS_MIN_COLUMN_WIDTH"
	EnvGutter            = "UITOKENS_GUTTER"
	EnvHorizontalPadding = "UITOKENS_HORIZONTAL_PADDING"
	EnvMinViewportHeight = "UITOKENS_MIN_VIEWPORT_HEIGHT"
	EnvLargestMinWidth   = "UITOKENS_LARGEST_MIN_WIDTH"
	EnvOpenMaxWidth      = "UITOKENS_OPEN_MAX_WIDTH"
	EnvColumns           = "UITOKENS_COLUMNS"

	// Vertical rhythm
	EnvBaselineGrid     = "UITOKENS_BASELINE_GRID"
	EnvBaseFontSize     = "UITOKENS_BASE_FONT_SIZE"
	EnvMaxContentHeight = "UITOKENS_MAX_CONTENT_HEIGHT"
	EnvOffsetHeight     = "UITOKENS_OFFSET_HEIGHT"
	EnvDensities        = "UITOKENS_DENSITIES"

	// Color
	EnvBrand      = "UITOKENS_BRAND"
	EnvFeedback   = "UITOKENS_FEEDBACK"
	EnvGreyHue    = "UITOKENS_GREY_HUE"
	EnvFineShades = "UITOKENS_FINE_SHADES"

	// Output
	EnvCollections = "UITOKENS_COLLECTIONS"
	EnvOutputDir   = "UITOKENS_OUTPUT_DIR"
	EnvInclude     = "UITOKENS_INCLUDE"
	EnvImportDir   = "UITOKENS_IMPORT_DIR"

	// Runtime
	EnvLogLevel    = "UITOKENS_LOG_LEVEL"
	EnvLogFormat   = "UITOKENS_LOG_FORMAT"
	EnvMCPLog      = "UITOKENS_MCP_LOG"
	EnvMetricsAddr = "UITOKENS_METRICS_ADDR"
)
