package recommender

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

const (
	TypeVideo = "video"
	TypeBook  = "book"

	// typeYouTube is the provider label older clients send for videos.
	typeYouTube = "youtube"

	DefaultCategory = "general"

	msPerDay = 86_400_000
)

// Catalog holds the fixed key sets a profile is built over.
// ContentTypes order is the tie-break order for equal scores.
type Catalog struct {
	ContentTypes  []string `yaml:"content_types" json:"content_types"`
	Categories    []string `yaml:"categories" json:"categories"`
	Tags          []string `yaml:"tags" json:"tags"`
	HighValueTags []string `yaml:"high_value_tags" json:"high_value_tags"`
}

// Weights holds every constant of the scoring heuristic.
type Weights struct {
	Baseline float64 `yaml:"baseline" json:"baseline"`

	DecayWindowDays float64 `yaml:"decay_window_days" json:"decay_window_days"`
	DecayFloor      float64 `yaml:"decay_floor" json:"decay_floor"`

	ActivityType     float64 `yaml:"activity_type" json:"activity_type"`
	ActivityCategory float64 `yaml:"activity_category" json:"activity_category"`
	ActivityTag      float64 `yaml:"activity_tag" json:"activity_tag"`

	BookmarkType         float64 `yaml:"bookmark_type" json:"bookmark_type"`
	BookmarkCategory     float64 `yaml:"bookmark_category" json:"bookmark_category"`
	BookmarkHighValueTag float64 `yaml:"bookmark_high_value_tag" json:"bookmark_high_value_tag"`
	BookmarkTag          float64 `yaml:"bookmark_tag" json:"bookmark_tag"`

	RecencyWindowDays float64 `yaml:"recency_window_days" json:"recency_window_days"`
	RecencyFloor      float64 `yaml:"recency_floor" json:"recency_floor"`

	ScoreFloor   float64 `yaml:"score_floor" json:"score_floor"`
	ScoreCeiling float64 `yaml:"score_ceiling" json:"score_ceiling"`

	HighConfidence   float64 `yaml:"high_confidence" json:"high_confidence"`
	MediumConfidence float64 `yaml:"medium_confidence" json:"medium_confidence"`

	TopN int `yaml:"top_n" json:"top_n"`

	FallbackScore  float64            `yaml:"fallback_score" json:"fallback_score"`
	FallbackScores map[string]float64 `yaml:"fallback_scores" json:"fallback_scores"`
}

// Settings bundles the catalog and weights used by a Scorer.
type Settings struct {
	Catalog Catalog `yaml:"catalog" json:"catalog"`
	Weights Weights `yaml:"weights" json:"weights"`
}

func DefaultCatalog() Catalog {
	return Catalog{
		ContentTypes: []string{TypeVideo, TypeBook},
		Categories:   []string{"programming", "education", "science", "technology", DefaultCategory},
		Tags: []string{
			"javascript", "python", "web development", "learning", "study",
			"data science", "html", "css", "react", "es6",
		},
		HighValueTags: []string{"javascript", "python", "web development"},
	}
}

func DefaultWeights() Weights {
	return Weights{
		Baseline:             0.1,
		DecayWindowDays:      30,
		DecayFloor:           0.1,
		ActivityType:         1.5,
		ActivityCategory:     1.2,
		ActivityTag:          1.0,
		BookmarkType:         3.0,
		BookmarkCategory:     2.5,
		BookmarkHighValueTag: 2.0,
		BookmarkTag:          1.5,
		RecencyWindowDays:    14,
		RecencyFloor:         0.7,
		ScoreFloor:           0.3,
		ScoreCeiling:         0.95,
		HighConfidence:       0.75,
		MediumConfidence:     0.5,
		TopN:                 5,
		FallbackScore:        0.6,
		FallbackScores:       map[string]float64{TypeVideo: 0.7},
	}
}

func DefaultSettings() Settings {
	return Settings{Catalog: DefaultCatalog(), Weights: DefaultWeights()}
}

// LoadSettings reads a YAML override file on top of DefaultSettings.
// Keys absent from the file keep their default values.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read catalog file: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse catalog file: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid catalog file %s: %w", path, err)
	}
	return s, nil
}

// Validate reports settings that would break the scoring invariants.
func (s Settings) Validate() error {
	var errs []error
	if len(s.Catalog.ContentTypes) == 0 {
		errs = append(errs, errors.New("at least one content type is required"))
	}
	if slices.Contains(s.Catalog.ContentTypes, typeYouTube) {
		errs = append(errs, errors.New("youtube is an alias of video and cannot be a content type"))
	}
	w := s.Weights
	if w.Baseline <= 0 {
		errs = append(errs, errors.New("baseline must be positive"))
	}
	if w.DecayWindowDays <= 0 || w.RecencyWindowDays <= 0 {
		errs = append(errs, errors.New("decay and recency windows must be positive"))
	}
	for name, v := range map[string]float64{
		"decay_floor":             w.DecayFloor,
		"activity_type":           w.ActivityType,
		"activity_category":       w.ActivityCategory,
		"activity_tag":            w.ActivityTag,
		"bookmark_type":           w.BookmarkType,
		"bookmark_category":       w.BookmarkCategory,
		"bookmark_high_value_tag": w.BookmarkHighValueTag,
		"bookmark_tag":            w.BookmarkTag,
		"recency_floor":           w.RecencyFloor,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %.2f", name, v))
		}
	}
	if w.ScoreFloor > w.ScoreCeiling {
		errs = append(errs, fmt.Errorf("score floor %.2f exceeds ceiling %.2f", w.ScoreFloor, w.ScoreCeiling))
	} else {
		if !w.inRange(w.FallbackScore) {
			errs = append(errs, fmt.Errorf("fallback_score %.2f is outside [%.2f, %.2f]", w.FallbackScore, w.ScoreFloor, w.ScoreCeiling))
		}
		for t, v := range w.FallbackScores {
			if !w.inRange(v) {
				errs = append(errs, fmt.Errorf("fallback score for %s %.2f is outside [%.2f, %.2f]", t, v, w.ScoreFloor, w.ScoreCeiling))
			}
		}
	}
	if w.MediumConfidence > w.HighConfidence {
		errs = append(errs, errors.New("medium confidence threshold exceeds high threshold"))
	}
	if w.TopN <= 0 {
		errs = append(errs, errors.New("top_n must be positive"))
	}
	return errors.Join(errs...)
}

// NormalizeType maps provider labels onto canonical content types.
func NormalizeType(t string) string {
	if t == typeYouTube {
		return TypeVideo
	}
	return t
}

func (c Catalog) HasType(t string) bool     { return slices.Contains(c.ContentTypes, t) }
func (c Catalog) HasCategory(k string) bool { return slices.Contains(c.Categories, k) }
func (c Catalog) HasTag(t string) bool      { return slices.Contains(c.Tags, t) }
func (c Catalog) isHighValue(t string) bool { return slices.Contains(c.HighValueTags, t) }

// TimeWeight decays linearly from 1 to DecayFloor over DecayWindowDays.
func (w Weights) TimeWeight(ageInDays float64) float64 {
	return max(w.DecayFloor, 1-ageInDays/w.DecayWindowDays)
}

// RecencyFactor decays linearly from 1 to RecencyFloor over RecencyWindowDays.
func (w Weights) RecencyFactor(daysSince float64) float64 {
	return max(w.RecencyFloor, 1-daysSince/w.RecencyWindowDays)
}

func (w Weights) inRange(score float64) bool {
	return score >= w.ScoreFloor && score <= w.ScoreCeiling
}

func (w Weights) Clamp(score float64) float64 {
	return min(max(score, w.ScoreFloor), w.ScoreCeiling)
}

func (w Weights) Confidence(score float64) Confidence {
	switch {
	case score > w.HighConfidence:
		return ConfidenceHigh
	case score > w.MediumConfidence:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func (w Weights) fallbackScore(t string) float64 {
	if s, ok := w.FallbackScores[t]; ok {
		return s
	}
	return w.FallbackScore
}
