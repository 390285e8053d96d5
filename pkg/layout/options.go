package layout

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/voltlab/sldraw/pkg/sld/rank"
)

// Default geometry. Values are world-space pixels. The defaults produce
// diagrams whose columns are one rank apart and whose rows never overlap
// for any input.
const (
	DefaultGridSize        = 20.0
	DefaultLevelWidth      = 220.0
	DefaultBaseOffset      = 100.0
	DefaultNodeHeight      = 120.0
	DefaultSpecLineHeight  = 16.0
	DefaultRootGap         = 60.0
	DefaultTopMargin       = 100.0
	DefaultBottomMargin    = 100.0
	DefaultMinCanvasHeight = 1000.0
)

// Options configures the layout engine. The zero value is not usable -
// start from [DefaultOptions] and override.
type Options struct {
	// GridSize is the snapping grid. Every computed (non-pinned)
	// coordinate is rounded to a multiple of it.
	GridSize float64 `toml:"grid_size"`

	// LevelWidth is the horizontal distance between adjacent integer
	// ranks; BaseOffset shifts the whole staging to the right.
	LevelWidth float64 `toml:"level_width"`
	BaseOffset float64 `toml:"base_offset"`

	// NodeHeight is the base vertical space a component needs;
	// SpecLineHeight is added once per spec line the component displays.
	NodeHeight     float64 `toml:"node_height"`
	SpecLineHeight float64 `toml:"spec_line_height"`

	// RootGap separates stacked forest roots; TopMargin and BottomMargin
	// pad the canvas above the first root and below the last.
	RootGap      float64 `toml:"root_gap"`
	TopMargin    float64 `toml:"top_margin"`
	BottomMargin float64 `toml:"bottom_margin"`

	// MinCanvasHeight is the floor for the reported total height.
	MinCanvasHeight float64 `toml:"min_canvas_height"`

	// Ranks is the horizontal staging table.
	Ranks rank.Map `toml:"-"`

	// Logger receives layout warnings (dropped edges, cycle guards).
	// Defaults to a discard logger.
	Logger *log.Logger `toml:"-"`
}

// DefaultOptions returns the built-in configuration with the default rank
// table and a discard logger.
func DefaultOptions() Options {
	return Options{
		GridSize:        DefaultGridSize,
		LevelWidth:      DefaultLevelWidth,
		BaseOffset:      DefaultBaseOffset,
		NodeHeight:      DefaultNodeHeight,
		SpecLineHeight:  DefaultSpecLineHeight,
		RootGap:         DefaultRootGap,
		TopMargin:       DefaultTopMargin,
		BottomMargin:    DefaultBottomMargin,
		MinCanvasHeight: DefaultMinCanvasHeight,
		Ranks:           rank.Default(),
		Logger:          log.NewWithOptions(io.Discard, log.Options{}),
	}
}

// Option mutates Options during [New].
type Option func(*Options)

// WithGridSize sets the snapping grid.
func WithGridSize(g float64) Option { return func(o *Options) { o.GridSize = g } }

// WithLevelWidth sets the horizontal distance per rank.
func WithLevelWidth(w float64) Option { return func(o *Options) { o.LevelWidth = w } }

// WithRanks replaces the staging table.
func WithRanks(m rank.Map) Option { return func(o *Options) { o.Ranks = m } }

// WithLogger routes layout warnings to l.
func WithLogger(l *log.Logger) Option { return func(o *Options) { o.Logger = l } }

// WithOptions replaces the whole option set, preserving defaults for the
// rank table and logger when the replacement leaves them nil.
func WithOptions(opts Options) Option {
	return func(o *Options) {
		ranks, logger := o.Ranks, o.Logger
		*o = opts
		if o.Ranks == nil {
			o.Ranks = ranks
		}
		if o.Logger == nil {
			o.Logger = logger
		}
	}
}
