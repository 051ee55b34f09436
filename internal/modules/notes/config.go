package notes

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/studyforge/studyforge-backend/internal/platform/logger"
	"github.com/studyforge/studyforge-backend/internal/utils"
)

// Config carries the pipeline tunables. Values resolve from environment
// variables with an optional YAML overlay underneath (env wins).
type Config struct {
	MinWords            int     `yaml:"min_words"`
	MaxWords            int     `yaml:"max_words"`
	TargetSize          int     `yaml:"target_size"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	MinInformativeWords int     `yaml:"min_informative_words"`
	MaxStopwordRatio    float64 `yaml:"max_stopword_ratio"`
	MinClusterSize      int     `yaml:"min_cluster_size"`
	MinWordsPerCluster  int     `yaml:"min_words_per_cluster"`
	MaxTopicPercentage  float64 `yaml:"max_topic_percentage"`
	ExpandNotes         bool    `yaml:"expand_notes"`
}

func DefaultConfig() Config {
	return Config{
		MinWords:            30,
		MaxWords:            200,
		TargetSize:          100,
		SimilarityThreshold: 0.3,
		MinInformativeWords: 5,
		MaxStopwordRatio:    0.75,
		MinClusterSize:      10,
		MinWordsPerCluster:  500,
		MaxTopicPercentage:  0.6,
		ExpandNotes:         true,
	}
}

// LoadConfig resolves the pipeline config: defaults, then the YAML file named
// by STUDYFORGE_CONFIG (if any), then environment variables on top.
func LoadConfig(log *logger.Logger) Config {
	cfg := DefaultConfig()

	if path := strings.TrimSpace(os.Getenv("STUDYFORGE_CONFIG")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if log != nil {
				log.Warn("Could not read config file, using defaults", "path", path, "error", err)
			}
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil && log != nil {
			log.Warn("Could not parse config file, using defaults", "path", path, "error", err)
		}
	}

	cfg.MinWords = utils.GetEnvAsInt("NOTES_MIN_WORDS", cfg.MinWords, log)
	cfg.MaxWords = utils.GetEnvAsInt("NOTES_MAX_WORDS", cfg.MaxWords, log)
	cfg.TargetSize = utils.GetEnvAsInt("NOTES_TARGET_SIZE", cfg.TargetSize, log)
	cfg.SimilarityThreshold = utils.GetEnvAsFloat("NOTES_SIMILARITY_THRESHOLD", cfg.SimilarityThreshold, log)
	cfg.MinInformativeWords = utils.GetEnvAsInt("NOTES_MIN_INFORMATIVE_WORDS", cfg.MinInformativeWords, log)
	cfg.MaxStopwordRatio = utils.GetEnvAsFloat("NOTES_MAX_STOPWORD_RATIO", cfg.MaxStopwordRatio, log)
	cfg.MinClusterSize = utils.GetEnvAsInt("NOTES_MIN_CLUSTER_SIZE", cfg.MinClusterSize, log)
	cfg.MinWordsPerCluster = utils.GetEnvAsInt("NOTES_MIN_WORDS_PER_CLUSTER", cfg.MinWordsPerCluster, log)
	cfg.MaxTopicPercentage = utils.GetEnvAsFloat("NOTES_MAX_TOPIC_PERCENTAGE", cfg.MaxTopicPercentage, log)
	cfg.ExpandNotes = utils.GetEnvAsBool("NOTES_EXPAND_BULLETS", cfg.ExpandNotes, log)
	return cfg
}
