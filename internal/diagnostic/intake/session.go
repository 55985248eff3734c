package intake

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Mode distinguishes the free initial intake from the paid deep intake.
type Mode string

const (
	ModeInitial Mode = "initial"
	ModeDeep    Mode = "deep"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeInitial || m == ModeDeep
}

// Session is an in-progress intake. Methods return a new Session and leave
// the receiver untouched, so a draft can be passed around and restored
// without shared mutable state.
type Session struct {
	Mode     Mode     `json:"mode"`
	Answers  Response `json:"answers"`
	Answered []string `json:"answered"`
	Step     int      `json:"step"`
}

// NewSession starts an empty session for mode.
func NewSession(mode Mode) Session {
	return Session{Mode: mode, Answers: Response{}}
}

// Answer records v for questionID and advances the step counter the first
// time a question is answered.
func (s Session) Answer(questionID string, v Value) Session {
	next := Session{
		Mode:     s.Mode,
		Answers:  s.Answers.With(questionID, v),
		Answered: append([]string(nil), s.Answered...),
		Step:     s.Step,
	}
	for _, id := range s.Answered {
		if id == questionID {
			return next
		}
	}
	next.Answered = append(next.Answered, questionID)
	next.Step++
	return next
}

// Back rewinds the step counter without dropping answers.
func (s Session) Back() Session {
	next := s
	next.Answered = append([]string(nil), s.Answered...)
	next.Answers = s.Answers.Clone()
	if next.Step > 0 {
		next.Step--
	}
	return next
}

// Snapshot returns the normalized answers ready for a diagnostic run.
func (s Session) Snapshot() Response {
	return Normalize(s.Answers)
}

// Fingerprint returns a stable hash of the answers. Map keys marshal in
// sorted order so equal responses hash equally.
func Fingerprint(r Response) string {
	data, err := json.Marshal(r)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
