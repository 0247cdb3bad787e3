package indexer

import (
	"encoding/json"
	"os"

	"github.com/kepra-labs/rankdex/history"
	"github.com/kepra-labs/rankdex/rank"
)

// Config is the indexer's construction-time configuration (spec.md §6).
type Config struct {
	IndexDir           string
	Dampener           float64
	PageRankIterations int
	Strategy           rank.Strategy

	// History records every SearchByKeywords call when set. Nil disables
	// history recording entirely; LoadConfig never populates this field
	// since a *history.Store owns a live DB handle that the caller, not
	// config parsing, is responsible for opening and closing.
	History *history.Store
}

// DefaultConfig returns the documented defaults: index directory
// "index", damping 0.8, 100 PageRank iterations, iterative strategy.
func DefaultConfig() Config {
	return Config{
		IndexDir:           "index",
		Dampener:           0.8,
		PageRankIterations: 100,
		Strategy:           rank.Iterative,
	}
}

type configOverrides struct {
	IndexDir          *string  `json:"index_dir"`
	Dampener          *float64 `json:"dampener"`
	PageRankIteration *int     `json:"page_rank_iteration"`
}

// LoadConfig returns DefaultConfig() with any fields present in the
// JSON file at path overridden. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}
	if len(data) == 0 {
		return cfg, nil
	}

	var overrides configOverrides
	if err := json.Unmarshal(data, &overrides); err != nil {
		return Config{}, err
	}
	if overrides.IndexDir != nil {
		cfg.IndexDir = *overrides.IndexDir
	}
	if overrides.Dampener != nil {
		cfg.Dampener = *overrides.Dampener
	}
	if overrides.PageRankIteration != nil {
		cfg.PageRankIterations = *overrides.PageRankIteration
	}
	return cfg, nil
}
