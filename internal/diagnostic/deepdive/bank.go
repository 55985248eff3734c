package deepdive

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"clarity-backend/internal/diagnostic/intake"
)

//go:embed bank.yaml
var bankYAML []byte

// QuestionType drives the input widget and the time estimate.
type QuestionType string

const (
	TypeSingle QuestionType = "single"
	TypeMulti  QuestionType = "multi"
	TypeText   QuestionType = "text"
	TypeForm   QuestionType = "form"
	TypeDollar QuestionType = "dollar"
)

// Dependency gates a question on the answer to a parent question.
type Dependency struct {
	QuestionID    string   `yaml:"questionId" json:"questionId"`
	RequiredValue []string `yaml:"requiredValue" json:"requiredValue"`
}

// Question is one clarity session question.
type Question struct {
	ID          string         `yaml:"id" json:"id"`
	Module      string         `yaml:"module" json:"module"`
	Text        string         `yaml:"text" json:"text"`
	Type        QuestionType   `yaml:"type" json:"type"`
	Tracks      []intake.Track `yaml:"tracks" json:"tracks"`
	Options     []string       `yaml:"options,omitempty" json:"options,omitempty"`
	DependsOn   *Dependency    `yaml:"dependsOn,omitempty" json:"dependsOn,omitempty"`
	Placeholder string         `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	HelperText  string         `yaml:"helperText,omitempty" json:"helperText,omitempty"`
	MaxSelect   int            `yaml:"maxSelect,omitempty" json:"maxSelect,omitempty"`
	SelectAll   bool           `yaml:"selectAll,omitempty" json:"selectAll,omitempty"`
}

// Universal reports whether the question is asked on every track.
func (q Question) Universal() bool {
	return q.hasTrack(intake.TrackUniversal)
}

// ForTrack reports whether the question applies to t.
func (q Question) ForTrack(t intake.Track) bool {
	return q.Universal() || q.hasTrack(t)
}

func (q Question) hasTrack(t intake.Track) bool {
	for _, tr := range q.Tracks {
		if tr == t {
			return true
		}
	}
	return false
}

// Bank is a versioned, ordered question set.
type Bank struct {
	Version   string     `yaml:"version" json:"version"`
	Questions []Question `yaml:"questions" json:"questions"`

	byID map[string]int
}

var validTypes = map[QuestionType]bool{
	TypeSingle: true, TypeMulti: true, TypeText: true, TypeForm: true, TypeDollar: true,
}

// ParseBank decodes and validates a bank document. Ids must be unique and
// every dependency must name a question in the bank.
func ParseBank(data []byte) (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	if strings.TrimSpace(b.Version) == "" {
		return nil, errors.New("question bank: version is required")
	}
	b.byID = make(map[string]int, len(b.Questions))
	for i, q := range b.Questions {
		if q.ID == "" {
			return nil, fmt.Errorf("question bank: question %d has no id", i)
		}
		if _, dup := b.byID[q.ID]; dup {
			return nil, fmt.Errorf("question bank: duplicate id %q", q.ID)
		}
		if !validTypes[q.Type] {
			return nil, fmt.Errorf("question bank: %s has unknown type %q", q.ID, q.Type)
		}
		if len(q.Tracks) == 0 {
			return nil, fmt.Errorf("question bank: %s has no tracks", q.ID)
		}
		b.byID[q.ID] = i
	}
	for _, q := range b.Questions {
		if q.DependsOn == nil {
			continue
		}
		if _, ok := b.byID[q.DependsOn.QuestionID]; !ok {
			return nil, fmt.Errorf("question bank: %s depends on unknown %q", q.ID, q.DependsOn.QuestionID)
		}
	}
	return &b, nil
}

// Question returns the question with id.
func (b *Bank) Question(id string) (Question, bool) {
	i, ok := b.byID[id]
	if !ok {
		return Question{}, false
	}
	return b.Questions[i], true
}

// Module returns the questions of mod that apply to track, in bank order.
func (b *Bank) Module(mod string, track intake.Track) []Question {
	var out []Question
	for _, q := range b.Questions {
		if q.Module == mod && q.ForTrack(track) {
			out = append(out, q)
		}
	}
	return out
}

var defaultBank = mustParseBank(bankYAML)

func mustParseBank(data []byte) *Bank {
	b, err := ParseBank(data)
	if err != nil {
		panic(err)
	}
	return b
}

// DefaultBank returns the embedded question bank.
func DefaultBank() *Bank { return defaultBank }

// QuestionBankVersion is the version of the embedded bank.
func QuestionBankVersion() string { return defaultBank.Version }
