package airdrop

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// NewWindow is how long after creation a record is flagged as new.
const NewWindow = 7 * 24 * time.Hour

// Display fallbacks for records with missing text.
const (
	FallbackName     = "Unnamed Project"
	FallbackSubtitle = "No description"
	FallbackBackers  = "No backers"
)

// Record is one airdrop entry as served by the backend. Records are read-only
// to this program.
type Record struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Subtitle     string    `json:"subtitle" yaml:"subtitle"`
	Description  string    `json:"description" yaml:"description"`
	Chain        string    `json:"chain" yaml:"chain"`
	Stage        string    `json:"stage" yaml:"stage"`
	Cost         float64   `json:"cost" yaml:"cost"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	CoverImage   string    `json:"image_cover" yaml:"image_cover"`
	LogoImage    string    `json:"image_url" yaml:"image_url"`
	ProjectImage string    `json:"proj_img" yaml:"proj_img"`
	Requirements Entries   `json:"requirements" yaml:"requirements"`
	HowToSteps   Entries   `json:"how_to_steps" yaml:"how_to_steps"`
	Backers      []string  `json:"backers" yaml:"backers"`
	Comment      string    `json:"comment" yaml:"comment"`
}

// IsNew reports whether createdAt falls within NewWindow of now. A zero
// timestamp is never new.
func IsNew(createdAt, now time.Time) bool {
	if createdAt.IsZero() {
		return false
	}
	return now.Sub(createdAt) <= NewWindow
}

// IsNew reports whether the record was created within NewWindow of now.
func (r Record) IsNew(now time.Time) bool {
	return IsNew(r.CreatedAt, now)
}

// IsFree reports whether participation costs nothing.
func (r Record) IsFree() bool {
	return r.Cost <= 0
}

func (r Record) DisplayName() string {
	if name := strings.TrimSpace(r.Name); name != "" {
		return name
	}
	return FallbackName
}

func (r Record) DisplaySubtitle() string {
	if sub := strings.TrimSpace(r.Subtitle); sub != "" {
		return sub
	}
	return FallbackSubtitle
}

// CostLabel renders the cost badge: "FREE" or a dollar amount.
func (r Record) CostLabel() string {
	if r.IsFree() {
		return "FREE"
	}
	return "$" + humanize.CommafWithDigits(r.Cost, 2)
}

// StageLabel capitalizes the stage for display.
func (r Record) StageLabel() string {
	return Capitalize(r.Stage)
}

// Capitalize upper-cases the first letter of s and lower-cases the rest.
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}

// StageKind classifies the stage for color coding.
type StageKind int

const (
	StageOther StageKind = iota
	StageActive
	StageUpcoming
	StageEnded
)

func (r Record) StageKind() StageKind {
	switch strings.ToLower(strings.TrimSpace(r.Stage)) {
	case "active":
		return StageActive
	case "upcoming":
		return StageUpcoming
	case "ended":
		return StageEnded
	default:
		return StageOther
	}
}

// Banner returns the cover image reference, falling back to the logo.
func (r Record) Banner() string {
	if cover := strings.TrimSpace(r.CoverImage); cover != "" {
		return cover
	}
	return strings.TrimSpace(r.LogoImage)
}

// CleanBackers returns backers with blank names removed.
func (r Record) CleanBackers() []string {
	out := make([]string, 0, len(r.Backers))
	for _, b := range r.Backers {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// BackersLabel joins backers for compact display.
func (r Record) BackersLabel() string {
	backers := r.CleanBackers()
	if len(backers) == 0 {
		return FallbackBackers
	}
	return strings.Join(backers, ", ")
}

type wireRecord struct {
	ID           json.RawMessage `json:"id"`
	Name         *string         `json:"name"`
	Subtitle     *string         `json:"subtitle"`
	Description  *string         `json:"description"`
	Chain        *string         `json:"chain"`
	Stage        *string         `json:"stage"`
	Cost         json.RawMessage `json:"cost"`
	CreatedAt    json.RawMessage `json:"created_at"`
	CoverImage   *string         `json:"image_cover"`
	LogoImage    *string         `json:"image_url"`
	ProjectImage *string         `json:"proj_img"`
	Requirements Entries         `json:"requirements"`
	HowToSteps   Entries         `json:"how_to_steps"`
	Backers      json.RawMessage `json:"backers"`
	Comment      *string         `json:"comment"`
}

// UnmarshalJSON tolerates the loose typing of hosted rows: numeric ids,
// string costs, Postgres timestamp layouts and null anywhere.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode airdrop: %w", err)
	}
	id, _ := scalarText(w.ID)
	*r = Record{
		ID:           strings.TrimSpace(id),
		Name:         deref(w.Name),
		Subtitle:     deref(w.Subtitle),
		Description:  deref(w.Description),
		Chain:        deref(w.Chain),
		Stage:        deref(w.Stage),
		Cost:         parseCost(w.Cost),
		CoverImage:   deref(w.CoverImage),
		LogoImage:    deref(w.LogoImage),
		ProjectImage: deref(w.ProjectImage),
		Requirements: w.Requirements,
		HowToSteps:   w.HowToSteps,
		Backers:      parseBackers(w.Backers),
		Comment:      deref(w.Comment),
	}
	if ts, ok := scalarText(w.CreatedAt); ok {
		r.CreatedAt, _ = ParseTimestamp(ts)
	}
	return nil
}

// MarshalJSON writes the wire form, with a null created_at when unset.
func (r Record) MarshalJSON() ([]byte, error) {
	var created any
	if !r.CreatedAt.IsZero() {
		created = r.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	backers := r.Backers
	if backers == nil {
		backers = []string{}
	}
	return json.Marshal(struct {
		ID           string   `json:"id"`
		Name         string   `json:"name"`
		Subtitle     string   `json:"subtitle"`
		Description  string   `json:"description"`
		Chain        string   `json:"chain"`
		Stage        string   `json:"stage"`
		Cost         float64  `json:"cost"`
		CreatedAt    any      `json:"created_at"`
		CoverImage   string   `json:"image_cover"`
		LogoImage    string   `json:"image_url"`
		ProjectImage string   `json:"proj_img"`
		Requirements Entries  `json:"requirements"`
		HowToSteps   Entries  `json:"how_to_steps"`
		Backers      []string `json:"backers"`
		Comment      string   `json:"comment"`
	}{
		r.ID, r.Name, r.Subtitle, r.Description, r.Chain, r.Stage, r.Cost, created,
		r.CoverImage, r.LogoImage, r.ProjectImage, r.Requirements, r.HowToSteps, backers, r.Comment,
	})
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02",
}

// ParseTimestamp accepts RFC 3339 and the layouts Postgres and SQLite emit.
// Timestamps without a zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseCost(raw json.RawMessage) float64 {
	text, ok := scalarText(raw)
	if !ok {
		return 0
	}
	text = strings.TrimPrefix(strings.TrimSpace(text), "$")
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func parseBackers(raw json.RawMessage) []string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := scalarText(item); ok {
			out = append(out, s)
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
