package config

import "fmt"

// TrainingConfig holds generation budgets and publishing defaults.
type TrainingConfig struct {
	ExcerptChars    int `toml:"excerpt_chars"`
	StoredTextChars int `toml:"stored_text_chars"`
	MinTextChars    int `toml:"min_text_chars"`
	MinLessons      int `toml:"min_lessons"`
	MaxAttempts     int `toml:"max_attempts"`
	PassingScore    int `toml:"passing_score"`
	RewardWeight    int `toml:"reward_weight"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *TrainingConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *TrainingConfig) Merge(overlay *TrainingConfig) {
	mergeInt(&c.ExcerptChars, overlay.ExcerptChars)
	mergeInt(&c.StoredTextChars, overlay.StoredTextChars)
	mergeInt(&c.MinTextChars, overlay.MinTextChars)
	mergeInt(&c.MinLessons, overlay.MinLessons)
	mergeInt(&c.MaxAttempts, overlay.MaxAttempts)
	mergeInt(&c.PassingScore, overlay.PassingScore)
	mergeInt(&c.RewardWeight, overlay.RewardWeight)
}

func (c *TrainingConfig) loadDefaults() {
	defaultInt(&c.ExcerptChars, 12000)
	defaultInt(&c.StoredTextChars, 50000)
	defaultInt(&c.MinTextChars, 100)
	defaultInt(&c.MinLessons, 8)
	defaultInt(&c.MaxAttempts, 3)
	defaultInt(&c.PassingScore, 80)
	defaultInt(&c.RewardWeight, 1)
}

func (c *TrainingConfig) loadEnv() {
	envInt("STEWARD_TRAINING_EXCERPT_CHARS", &c.ExcerptChars)
	envInt("STEWARD_TRAINING_STORED_TEXT_CHARS", &c.StoredTextChars)
	envInt("STEWARD_TRAINING_MIN_TEXT_CHARS", &c.MinTextChars)
	envInt("STEWARD_TRAINING_MIN_LESSONS", &c.MinLessons)
	envInt("STEWARD_TRAINING_MAX_ATTEMPTS", &c.MaxAttempts)
	envInt("STEWARD_TRAINING_PASSING_SCORE", &c.PassingScore)
	envInt("STEWARD_TRAINING_REWARD_WEIGHT", &c.RewardWeight)
}

func (c *TrainingConfig) validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be positive")
	}
	if c.MinLessons < 1 {
		return fmt.Errorf("min_lessons must be positive")
	}
	if c.PassingScore < 0 || c.PassingScore > 100 {
		return fmt.Errorf("passing_score must be between 0 and 100")
	}
	if c.StoredTextChars < c.ExcerptChars {
		return fmt.Errorf("stored_text_chars cannot be less than excerpt_chars")
	}
	return nil
}
