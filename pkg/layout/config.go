package layout

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/voltlab/sldraw/pkg/sld/rank"
)

// Config is the on-disk TOML configuration: a [layout] table overriding
// engine geometry and a [ranks] table overriding the staging of
// individual component types.
//
//	[layout]
//	grid_size = 10
//	level_width = 260
//
//	[ranks]
//	meter = 3.5
type Config struct {
	Layout Options            `toml:"layout"`
	Ranks  map[string]float64 `toml:"ranks"`
}

// LoadConfig reads a TOML configuration file. Absent keys keep their
// defaults; the [ranks] table is merged over the built-in staging table.
func LoadConfig(path string) (Config, error) {
	cfg := Config{Layout: DefaultOptions()}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("loading config %q: %w", path, err)
	}
	cfg.Layout.Ranks = rank.Default().Merge(cfg.Ranks)
	return cfg, nil
}
