// Package deepdive assembles the personalized clarity session question pack
// from the embedded question bank. Build is deterministic: the same intake,
// preview and preferences always produce the same questions in the same
// order with the same metadata.
package deepdive

import (
	"strings"
	"unicode"

	"clarity-backend/internal/diagnostic/classify"
	"clarity-backend/internal/diagnostic/intake"
	"clarity-backend/internal/diagnostic/preview"
	"clarity-backend/internal/diagnostic/scoring"
)

// BuilderVersion is stamped into every pack. Bump it when selection logic
// changes so stored packs are regenerated.
const BuilderVersion = "2026-02-17.1"

// Mode sizes the pack.
type Mode string

const (
	ModeShort    Mode = "SHORT"
	ModeStandard Mode = "STANDARD"
	ModeDeep     Mode = "DEEP"
)

// FocusArea is the founder's preferred emphasis.
type FocusArea string

const (
	FocusSystems  FocusArea = "SYSTEMS"
	FocusTeam     FocusArea = "TEAM"
	FocusDelivery FocusArea = "DELIVERY"
	FocusSales    FocusArea = "SALES"
	FocusMixed    FocusArea = "MIXED"
)

// Prefs are the optional builder preferences. The zero value means
// STANDARD, MIXED focus, finance included and the personable layer on.
type Prefs struct {
	Mode         Mode      `json:"mode,omitempty"`
	AvoidFinance bool      `json:"avoidFinance,omitempty"`
	Focus        FocusArea `json:"focus,omitempty"`
	// ExcludePersonable drops the Founder Reality layer.
	ExcludePersonable bool `json:"excludePersonable,omitempty"`
	// MaxQuestions overrides the mode target when positive. Personable
	// questions are reserved on top of it.
	MaxQuestions int `json:"maxQuestions,omitempty"`
}

// Input carries everything Build reads.
type Input struct {
	Intake  intake.Response
	Preview preview.Result
	Prefs   Prefs
}

// PackMeta describes how a pack was assembled.
type PackMeta struct {
	PackID              string       `json:"packId"`
	Track               intake.Track `json:"track"`
	PrimaryConstraint   string       `json:"primaryConstraint,omitempty"`
	SecondaryConstraint string       `json:"secondaryConstraint,omitempty"`
	SelectedModules     []string     `json:"selectedModules"`
	SpineCount          int          `json:"spineCount"`
	ModuleCount         int          `json:"moduleCount"`
	TrackCount          int          `json:"trackCount"`
	PersonableCount     int          `json:"personableCount"`
	EstimatedMinutes    int          `json:"estimatedMinutes"`
	BuilderVersion      string       `json:"builderVersion"`
	QuestionBankVersion string       `json:"questionBankVersion"`
}

// Pack is the assembled question set.
type Pack struct {
	Questions []Question `json:"questions"`
	Meta      PackMeta   `json:"packMeta"`
}

// IDs returns the question ids in pack order.
func (p Pack) IDs() []string {
	out := make([]string, len(p.Questions))
	for i, q := range p.Questions {
		out[i] = q.ID
	}
	return out
}

// IsOutdatedPack reports whether meta was produced by a different builder
// or question bank than this build. A nil meta is always outdated.
func IsOutdatedPack(meta *PackMeta) bool {
	if meta == nil {
		return true
	}
	return meta.BuilderVersion != BuilderVersion || meta.QuestionBankVersion != QuestionBankVersion()
}

type sizing struct {
	target     int
	modules    int
	track      int
	personable int
}

var sizes = map[Mode]sizing{
	ModeShort:    {target: 15, modules: 4, track: 2, personable: 2},
	ModeStandard: {target: 25, modules: 10, track: 5, personable: 3},
	ModeDeep:     {target: 35, modules: 16, track: 8, personable: 3},
}

const (
	moduleFinancialHealth = "Financial Health"
	moduleFounderReality  = "Founder Reality"
)

var spineIDs = []string{
	"financial_authority_threshold",
	"deep_work_audit",
	"recovery_tax",
	"runway_stress_test",
	"revenue_range",
	"profitability_gut_check",
	"pricing_confidence",
	"tool_count",
	"search_friction",
	"bus_factor_30_day",
	"interruption_source_id",
	"strategic_work_id",
}

var spineFinanceIDs = map[string]bool{
	"revenue_range":           true,
	"profitability_gut_check": true,
	"pricing_confidence":      true,
}

var personableIDs = []string{"last_hour_wished_delegated", "magic_wand_fix", "what_keeps_you_up"}

var constraintModules = map[string][]string{
	string(scoring.FounderCentralization): {"Workload Analysis", moduleFounderReality, "Process Heatmap"},
	string(scoring.StructuralFragility):   {"System Health", "Process Heatmap", "Flow Friction"},
	string(scoring.DecisionBottleneck):    {"Decision Load", "Flow Friction", "Diagnosis & Roadmap"},
	string(scoring.CapacityConstraint):    {moduleFinancialHealth, "Workload Analysis", "Process Heatmap"},
	classify.StrategicType:                {moduleFinancialHealth, "Diagnosis & Roadmap", "Process Heatmap"},
}

var focusModules = map[FocusArea][]string{
	FocusSystems:  {"System Health", "Process Heatmap"},
	FocusTeam:     {"Workload Analysis", "Flow Friction"},
	FocusDelivery: {"Process Heatmap", "Flow Friction"},
	FocusSales:    {"Process Heatmap", "Decision Load"},
}

// tenths of a minute per question type
var answerTime = map[QuestionType]int{
	TypeSingle: 4,
	TypeMulti:  8,
	TypeText:   12,
	TypeForm:   15,
	TypeDollar: 6,
}

// Build assembles the pack from the embedded bank.
func Build(in Input) Pack {
	return BuildFrom(defaultBank, in)
}

// BuildFrom assembles the pack from bank.
func BuildFrom(bank *Bank, in Input) Pack {
	mode := in.Prefs.Mode
	size, ok := sizes[mode]
	if !ok {
		mode = ModeStandard
		size = sizes[mode]
	}
	maxQuestions := size.target
	if in.Prefs.MaxQuestions > 0 {
		maxQuestions = in.Prefs.MaxQuestions
	}
	focus := in.Prefs.Focus
	if focus == "" {
		focus = FocusMixed
	}
	avoidFinance := in.Prefs.AvoidFinance

	track := intake.ResolveTrack(in.Intake)
	primaryType := in.Preview.PrimaryConstraint.Type
	secondaryType := in.Preview.SecondaryConstraint.Type

	// spine
	spineSet := make(map[string]bool, len(spineIDs))
	spine := make([]Question, 0, len(spineIDs))
	for _, id := range spineIDs {
		if avoidFinance && spineFinanceIDs[id] {
			continue
		}
		spineSet[id] = true
		if q, ok := bank.Question(id); ok {
			spine = append(spine, q)
		}
	}

	// module selection
	modules := selectModules(primaryType, secondaryType, focus)
	selected := make(map[string]bool, len(modules))
	for _, m := range modules {
		selected[m] = true
	}

	personableSet := make(map[string]bool, len(personableIDs))
	for _, id := range personableIDs {
		personableSet[id] = true
	}

	var moduleQs []Question
	for _, mod := range modules {
		for _, q := range bank.Module(mod, track) {
			if spineSet[q.ID] || personableSet[q.ID] {
				continue
			}
			moduleQs = append(moduleQs, q)
		}
	}
	moduleQs = capAt(moduleQs, size.modules)

	// track-only questions, restricted to the modules the constraints point at
	existing := make(map[string]bool)
	for id := range spineSet {
		existing[id] = true
	}
	for _, q := range moduleQs {
		existing[q.ID] = true
	}
	for id := range personableSet {
		existing[id] = true
	}
	relevant := relevantModules(primaryType, secondaryType, modules)
	var trackQs []Question
	for _, q := range bank.Questions {
		if q.Universal() || !q.hasTrack(track) || existing[q.ID] {
			continue
		}
		if len(relevant) > 0 && !relevant[q.Module] {
			continue
		}
		trackQs = append(trackQs, q)
	}
	trackQs = capAt(trackQs, size.track)

	// personable layer
	var personable []Question
	if !in.Prefs.ExcludePersonable {
		for _, id := range personableIDs {
			if q, ok := bank.Question(id); ok {
				personable = append(personable, q)
			}
		}
		personable = capAt(personable, size.personable)
	}

	pool := dedupe(append(append(append([]Question(nil), spine...), moduleQs...), trackQs...))
	pool = injectParents(bank, pool)
	ordered := topoSort(pool)

	limit := maxQuestions - len(personable)
	if limit < len(spine) {
		limit = len(spine)
	}
	trimmed := trimToLimit(ordered, limit)

	if avoidFinance {
		kept := make([]Question, 0, len(trimmed))
		for _, q := range trimmed {
			if q.Module == moduleFinancialHealth && !spineSet[q.ID] {
				continue
			}
			kept = append(kept, q)
		}
		trimmed = kept
	}

	final := append([]Question(nil), trimmed...)
	inPool := make(map[string]bool, len(final))
	for _, q := range final {
		inPool[q.ID] = true
	}
	for _, q := range personable {
		if !inPool[q.ID] {
			final = append(final, q)
		}
	}

	meta := PackMeta{
		PackID:              packID(track, primaryType, mode),
		Track:               track,
		PrimaryConstraint:   primaryType,
		SecondaryConstraint: secondaryType,
		SelectedModules:     modules,
		EstimatedMinutes:    estimateMinutes(final),
		BuilderVersion:      BuilderVersion,
		QuestionBankVersion: bank.Version,
	}
	for _, q := range final {
		switch {
		case spineSet[q.ID]:
			meta.SpineCount++
		case personableSet[q.ID]:
			meta.PersonableCount++
		case selected[q.Module]:
			meta.ModuleCount++
		}
		if !q.Universal() && !spineSet[q.ID] {
			meta.TrackCount++
		}
	}

	return Pack{Questions: final, Meta: meta}
}

// selectModules picks the primary constraint's lead module, the secondary
// constraint's first unselected module, the primary's next module when only
// one was chosen, and one focus module when the focus is not MIXED. Finance
// avoidance is applied later to the trimmed pool, never here.
func selectModules(primary, secondary string, focus FocusArea) []string {
	var out []string
	has := func(m string) bool {
		for _, s := range out {
			if s == m {
				return true
			}
		}
		return false
	}
	addFirst := func(candidates []string) {
		for _, m := range candidates {
			if !has(m) {
				out = append(out, m)
				return
			}
		}
	}

	primaryMods := constraintModules[primary]
	addFirst(primaryMods)
	addFirst(constraintModules[secondary])
	if len(out) < 2 {
		addFirst(primaryMods)
	}
	if focus != FocusMixed {
		addFirst(focusModules[focus])
	}
	if out == nil {
		out = []string{}
	}
	return out
}

func relevantModules(primary, secondary string, selected []string) map[string]bool {
	out := make(map[string]bool)
	for _, m := range constraintModules[primary] {
		out[m] = true
	}
	for _, m := range constraintModules[secondary] {
		out[m] = true
	}
	for _, m := range selected {
		out[m] = true
	}
	return out
}

func capAt(qs []Question, n int) []Question {
	if len(qs) > n {
		return qs[:n]
	}
	return qs
}

// dedupe keeps the first occurrence of each id.
func dedupe(qs []Question) []Question {
	seen := make(map[string]bool, len(qs))
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		if seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		out = append(out, q)
	}
	return out
}

// injectParents appends the missing parent of every dependent question.
func injectParents(bank *Bank, qs []Question) []Question {
	ids := make(map[string]bool, len(qs))
	for _, q := range qs {
		ids[q.ID] = true
	}
	out := qs
	for _, q := range qs {
		if q.DependsOn == nil || ids[q.DependsOn.QuestionID] {
			continue
		}
		if parent, ok := bank.Question(q.DependsOn.QuestionID); ok {
			out = append(out, parent)
			ids[parent.ID] = true
		}
	}
	return out
}

// topoSort keeps input order except that a parent is pulled forward to sit
// before its first dependent.
func topoSort(qs []Question) []Question {
	byID := make(map[string]Question, len(qs))
	for _, q := range qs {
		byID[q.ID] = q
	}
	out := make([]Question, 0, len(qs))
	placed := make(map[string]bool, len(qs))
	var place func(q Question)
	place = func(q Question) {
		if placed[q.ID] {
			return
		}
		// marked before visiting the parent so a malformed cycle terminates
		placed[q.ID] = true
		if q.DependsOn != nil {
			if parent, ok := byID[q.DependsOn.QuestionID]; ok && !placed[parent.ID] {
				place(parent)
			}
		}
		out = append(out, q)
	}
	for _, q := range qs {
		place(q)
	}
	return out
}

// trimToLimit cuts the ordered pool to limit and drops any dependent whose
// parent fell outside the cut. Parents are never dropped to keep a child.
func trimToLimit(qs []Question, limit int) []Question {
	if len(qs) <= limit {
		return qs
	}
	kept := qs[:limit]
	ids := make(map[string]bool, len(kept))
	for _, q := range kept {
		ids[q.ID] = true
	}
	out := make([]Question, 0, len(kept))
	for _, q := range kept {
		if q.DependsOn != nil && !ids[q.DependsOn.QuestionID] {
			continue
		}
		out = append(out, q)
	}
	return out
}

func estimateMinutes(qs []Question) int {
	tenths := 0
	for _, q := range qs {
		if t, ok := answerTime[q.Type]; ok {
			tenths += t
		} else {
			tenths += 5
		}
	}
	return (tenths + 9) / 10
}

func packID(track intake.Track, primary string, mode Mode) string {
	raw := string(track) + "-" + primary + "-" + string(mode)
	var b strings.Builder
	for _, r := range raw {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
		if b.Len() == 16 {
			break
		}
	}
	return "pack_" + b.String()
}
