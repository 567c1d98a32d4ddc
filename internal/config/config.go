package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

type ServerConfig struct {
	Port          string `toml:"port"`
	MaxUploadSize int64  `toml:"max_upload_size"`
}

type Neo4jConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

// AnalysisConfig holds every heuristic threshold of the pipeline. Defaults
// follow the documented calibration; tests override fields freely.
type AnalysisConfig struct {
	MinMentions        int     `toml:"min_mentions"`
	AliasCooccurrence  int     `toml:"alias_cooccurrence"`
	SentenceWindow     int     `toml:"sentence_window"`
	StrengthK          float64 `toml:"strength_k"`
	MainThreshold      float64 `toml:"main_threshold"`
	MainChapterShare   float64 `toml:"main_chapter_share"`
	MainPlotThreshold  float64 `toml:"main_plot_threshold"`
	CausalFloor        float64 `toml:"causal_floor"`
	HierarchyDelta     float64 `toml:"hierarchy_delta"`
	HierarchyWindow    int     `toml:"hierarchy_window"`
	LocationBackWindow int     `toml:"location_back_window"`
	TransitionFloor    float64 `toml:"transition_floor"`
	PeakSigma          float64 `toml:"peak_sigma"`
	WalkDamping        float64 `toml:"walk_damping"`
	WalkIterations     int     `toml:"walk_iterations"`
}

type LLMConfig struct {
	Enabled  bool   `toml:"enabled"`
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type DataConfig struct {
	LexiconDir string `toml:"lexicon_dir"`
}

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Neo4j    Neo4jConfig    `toml:"neo4j"`
	Analysis AnalysisConfig `toml:"analysis"`
	LLM      LLMConfig      `toml:"llm"`
	Data     DataConfig     `toml:"data"`
}

// Default returns the configuration with the documented threshold defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          "8080",
			MaxUploadSize: 100 << 20,
		},
		Neo4j: Neo4jConfig{
			URI:  "bolt://localhost:7687",
			User: "neo4j",
		},
		Analysis: AnalysisConfig{
			MinMentions:        3,
			AliasCooccurrence:  2,
			SentenceWindow:     3,
			StrengthK:          3.0,
			MainThreshold:      0.5,
			MainChapterShare:   0.6,
			MainPlotThreshold:  0.7,
			CausalFloor:        0.3,
			HierarchyDelta:     0.15,
			HierarchyWindow:    10,
			LocationBackWindow: 8,
			TransitionFloor:    0.1,
			PeakSigma:          1.0,
			WalkDamping:        0.85,
			WalkIterations:     40,
		},
		LLM: LLMConfig{
			Provider: "openai",
		},
	}
}

// Load reads a TOML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides file values with environment variables when present.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("NEO4J_URI"); v != "" {
		c.Neo4j.URI = v
	}
	if v := os.Getenv("NEO4J_USER"); v != "" {
		c.Neo4j.User = v
	}
	if v := os.Getenv("NEO4J_PASSWORD"); v != "" {
		c.Neo4j.Password = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("ENABLE_AI_ANALYSIS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.LLM.Enabled = b
		}
	}
	if v := os.Getenv("MIN_CHARACTER_MENTIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Analysis.MinMentions = n
		}
	}
	if v := os.Getenv("LEXICON_DIR"); v != "" {
		c.Data.LexiconDir = v
	}
}
