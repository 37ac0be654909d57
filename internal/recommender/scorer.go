package recommender

import (
	"log/slog"
	"sort"
	"time"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Recommendation is one ranked content type.
type Recommendation struct {
	Type       string     `json:"type"`
	Score      float64    `json:"score"`
	Confidence Confidence `json:"confidence"`
}

// Scorer ranks content types for one user's activity and bookmarks.
// It holds no per-call state and is safe for concurrent use.
type Scorer struct {
	settings Settings
	builder  *ProfileBuilder
	now      func() time.Time
	logger   *slog.Logger
}

type Option func(*Scorer)

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Scorer) { s.logger = l }
}

func NewScorer(settings Settings, opts ...Option) *Scorer {
	s := &Scorer{
		settings: settings,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.builder = NewProfileBuilder(settings, s.now)
	return s
}

func (s *Scorer) Settings() Settings { return s.settings }

// Recommend returns at most TopN recommendations sorted by descending score.
// It never fails: missing data or an internal fault yields Defaults.
func (s *Scorer) Recommend(activity []ActivityEvent, bookmarks []Bookmark) []Recommendation {
	recs, _ := s.Evaluate(activity, bookmarks)
	return recs
}

// Evaluate is Recommend that also reports whether the result was derived from
// the input (true) or is the default set (false).
func (s *Scorer) Evaluate(activity []ActivityEvent, bookmarks []Bookmark) (recs []Recommendation, personalized bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("recommendation scoring failed, serving defaults",
				"panic", r,
				"activity", len(activity),
				"bookmarks", len(bookmarks),
			)
			recs, personalized = s.Defaults(), false
		}
	}()

	if len(activity) == 0 && len(bookmarks) == 0 {
		return s.Defaults(), false
	}

	profile := s.builder.Build(activity, bookmarks)
	if profile.Accepted == 0 {
		s.logger.Debug("no usable activity or bookmarks, serving defaults",
			"activity", len(activity),
			"bookmarks", len(bookmarks),
		)
		return s.Defaults(), false
	}
	return s.ScoreProfile(profile), true
}

// BuildProfile exposes the profile a Recommend call would score.
func (s *Scorer) BuildProfile(activity []ActivityEvent, bookmarks []Bookmark) UserProfile {
	return s.builder.Build(activity, bookmarks)
}

// ScoreProfile ranks the content types of an already built profile.
func (s *Scorer) ScoreProfile(p UserProfile) []Recommendation {
	w := s.settings.Weights

	var maxScore float64
	for _, v := range p.TypeScores {
		maxScore = max(maxScore, v)
	}

	// A freshly built profile has LastActivity == now, so this is ~1.0 unless
	// the profile is scored some time after it was built.
	daysSince := float64(s.now().UnixMilli()-p.LastActivity) / msPerDay
	recency := w.RecencyFactor(daysSince)

	recs := make([]Recommendation, 0, len(s.settings.Catalog.ContentTypes))
	for _, t := range s.settings.Catalog.ContentTypes {
		score := p.TypeScores[t]
		if maxScore > 0 {
			score /= maxScore
		}
		score = w.Clamp(score * recency)
		recs = append(recs, Recommendation{
			Type:       t,
			Score:      score,
			Confidence: w.Confidence(score),
		})
	}
	return s.rank(recs)
}

// Defaults is the placeholder set served when there is nothing to score.
// Every entry is low confidence.
func (s *Scorer) Defaults() []Recommendation {
	w := s.settings.Weights
	recs := make([]Recommendation, 0, len(s.settings.Catalog.ContentTypes))
	for _, t := range s.settings.Catalog.ContentTypes {
		recs = append(recs, Recommendation{
			Type:       t,
			Score:      w.fallbackScore(t),
			Confidence: ConfidenceLow,
		})
	}
	return s.rank(recs)
}

// rank sorts by descending score, keeping catalog order for ties, and
// truncates to TopN.
func (s *Scorer) rank(recs []Recommendation) []Recommendation {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	if n := s.settings.Weights.TopN; n > 0 && len(recs) > n {
		recs = recs[:n]
	}
	return recs
}
