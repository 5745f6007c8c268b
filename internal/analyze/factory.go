package analyze

import (
	"fmt"

	"github.com/staylens/staylens/internal/model"
)

// NewAnalyzer creates the configured analytics provider.
func NewAnalyzer(cfg model.AnalyzerConfig) (Analyzer, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIAnalyzer(cfg)
	case "":
		return nil, fmt.Errorf("no analyzer provider configured")
	default:
		return nil, fmt.Errorf("unknown analyzer provider %q", cfg.Provider)
	}
}
