package report

import (
	"fmt"
	"strings"

	"clarity-backend/internal/diagnostic/intake"
)

// Phase is the original single-action roadmap entry, kept for consumers
// that predate the enriched roadmap.
type Phase struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ActionItem  string `json:"actionItem"`
}

// Action is one roadmap task with its done criteria.
type Action struct {
	Task              string `json:"task"`
	WhatGoodLooksLike string `json:"whatGoodLooksLike"`
}

// EnrichedPhase is one of the three twelve-week roadmap phases.
type EnrichedPhase struct {
	Name            string   `json:"name"`
	Timeframe       string   `json:"timeframe"`
	Description     string   `json:"description"`
	Actions         []Action `json:"actions"`
	SuccessCriteria string   `json:"successCriteria"`
}

// interruptionPlays are matched against interruption_source_id; the entry
// with an empty match is the default.
var interruptionPlays = []struct {
	match       string
	description string
	first       Action
	small       Action
	larger      Action
	criteria    string
	legacy      Phase
}{
	{
		match:       "Quick questions",
		description: "Batch team questions instead of fielding them live.",
		first:       Action{"Set two fixed daily windows for team questions and hold everything else until then.", "Questions arrive in batches and most days include one uninterrupted block."},
		small:       Action{"Keep a shared question log so repeat questions get answered once, in writing.", "Repeat questions drop week over week."},
		larger:      Action{"Adopt the three options rule: the team brings three options and a recommendation, you pick one.", "Most questions arrive with a recommended answer attached."},
		criteria:    "Live interruptions from the team are down by half.",
		legacy:      Phase{"The 15-Minute Rule", "Batch team questions instead of fielding them live.", "Implement the three options rule: the team brings 3 options, you pick one."},
	},
	{
		match:       "Client emails",
		description: "Stop answering client email reactively.",
		first:       Action{"Publish response windows to clients and check email only inside them.", "Clients know when to expect a reply and urgent requests use a separate channel."},
		small:       Action{"Write templates for the five most common client emails.", "Routine replies take minutes instead of focus blocks."},
		larger:      Action{"Route routine client email to a shared team inbox with a named owner.", "The founder sees escalations only."},
		criteria:    "Client email no longer sets the shape of the day.",
		legacy:      Phase{"Communication Protocol", "Stop reactive client email.", "Set up a client batching protocol with defined response windows instead of reactive inboxing."},
	},
	{
		match:       "Emergency",
		description: "Separate true emergencies from requests that only feel urgent.",
		first:       Action{"Write down what counts as an emergency and who responds first.", "The team can tell a real emergency from a loud request."},
		small:       Action{"List the three things that break most often and write a fix sheet for each.", "The same breakage is never diagnosed from scratch twice."},
		larger:      Action{"Name an on-call owner for each recurring failure.", "Firefighting reaches the founder only when the owner is stuck."},
		criteria:    "Firefighting interrupts the founder less than once a day.",
		legacy:      Phase{"Triage SOP", "Define what's actually an emergency versus what feels like one.", "Create an emergency response SOP with true emergency criteria and who handles what."},
	},
	{
		match:       "Administrative",
		description: "Get low-value tasks off your plate.",
		first:       Action{"Log every admin task for one week with the time it took.", "You have a ranked list of admin work by hours consumed."},
		small:       Action{"Automate scheduling and invoice reminders with tools you already pay for.", "Booking and payment chasing run without you."},
		larger:      Action{"Hand the top three admin tasks to an assistant or operations hire.", "Admin work takes under two hours of your week."},
		criteria:    "Admin work no longer fills your deep-work hours.",
		legacy:      Phase{"Admin Extraction", "Get low-value tasks off your plate.", "Audit and delegate or automate admin tasks such as scheduling, invoicing and formatting."},
	},
	{
		description: "Reduce the immediate noise.",
		first:       Action{"Set office hours for team questions and protect one focus block a day.", "Most days include at least one uninterrupted block."},
		small:       Action{"Write down the five decisions you make most often and the rule behind each.", "The team answers those five without you."},
		larger:      Action{"Ask each team lead to write down the five decisions they escalate most and propose a rule for each.", "Escalations on those decisions stop reaching you."},
		criteria:    "Less of last week went to interruptions than the week before.",
		legacy:      Phase{"Stabilization", "Reduce the immediate noise.", `Implement an "Office Hours" protocol for team questions.`},
	},
}

func interruptionPlay(r intake.Response) int {
	source := r.Text(keyInterruptionSource)
	for i, p := range interruptionPlays {
		if p.match == "" || strings.Contains(source, p.match) {
			return i
		}
	}
	return len(interruptionPlays) - 1
}

// stageRef names the bottleneck for use inside a sentence.
func stageRef(bottleneck string) string {
	if bottleneck == noneIdentified {
		return "your core workflow"
	}
	return "the " + bottleneck + " stage"
}

// freedFocus is where reclaimed founder time should go.
func freedFocus(r intake.Response) (focus string, stated bool) {
	if s := strings.TrimSpace(r.Text(keyStrategicWork)); s != "" {
		return s, true
	}
	if sp := superpowers(r); len(sp) > 0 {
		return sp[0], false
	}
	return "strategic planning", false
}

func superpowers(r intake.Response) []string {
	out := make([]string, 0, 2)
	for _, key := range []string{keySuperpower1, keySuperpower2, keySuperpowerAudit} {
		for _, item := range r.Items(key) {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

func enrichedPhases(r intake.Response, bottleneck string, rc RevenueContext) []EnrichedPhase {
	play := interruptionPlays[interruptionPlay(r)]
	second := play.larger
	if rc.smallScale() {
		second = play.small
	}
	stage := stageRef(bottleneck)

	defineDone := fmt.Sprintf("Write the definition of done for %s, starting with the three most common scenarios.", stage)
	if docsOutsideHead(r) {
		defineDone = fmt.Sprintf("Turn the existing notes for %s into one definition of done, starting with the three most common scenarios.", stage)
	}

	focus, stated := freedFocus(r)
	redirect := Action{
		Task:              fmt.Sprintf("Block four hours a week for %s and protect them like client work.", focus),
		WhatGoodLooksLike: "The block survives three consecutive weeks.",
	}
	if !stated && len(superpowers(r)) > 0 {
		redirect = Action{
			Task:              fmt.Sprintf("Spend the reclaimed hours on what you do best: %s.", focus),
			WhatGoodLooksLike: "Most of your week goes to work only you can do.",
		}
	}

	return []EnrichedPhase{
		{
			Name:            "Stop the Bleeding",
			Timeframe:       "Weeks 1-2",
			Description:     play.description,
			Actions:         []Action{play.first, second},
			SuccessCriteria: play.criteria,
		},
		{
			Name:        "Build the Floor",
			Timeframe:   "Weeks 3-6",
			Description: fmt.Sprintf("Document the standards for %s so it stops defaulting to you.", stage),
			Actions: []Action{
				{defineDone, "A team member can tell finished work from unfinished work without asking."},
				{"Build a delegation decision tree that sorts decisions into decide alone, decide and inform, or escalate.", "Escalations arrive with the branch of the tree already identified."},
			},
			SuccessCriteria: fmt.Sprintf("Work moves through %s without routing through you.", stage),
		},
		{
			Name:        "Raise the Ceiling",
			Timeframe:   "Weeks 7-12",
			Description: fmt.Sprintf("Free your time for %s.", focus),
			Actions: []Action{
				{fmt.Sprintf("Assign ownership of %s to one team member. You review outcomes, not steps.", stage), "The owner runs the stage for two straight weeks without handing it back."},
				redirect,
			},
			SuccessCriteria: "Your calendar shows more strategic hours than operational ones.",
		},
	}
}

func legacyPhases(r intake.Response, bottleneck string) []Phase {
	strategic := r.Text(keyStrategicWork)
	if strategic == "" {
		strategic = "Strategic Planning"
	}
	return []Phase{
		interruptionPlays[interruptionPlay(r)].legacy,
		{
			Name:        "Systemization",
			Description: fmt.Sprintf("Document the standards for %s so it doesn't default to you.", bottleneck),
			ActionItem:  fmt.Sprintf(`Write the "Definition of Done" for the %s stage. Start with the 3 most common scenarios.`, bottleneck),
		},
		{
			Name:        "Ceiling Removal",
			Description: fmt.Sprintf("Free you up for %s.", strategic),
			ActionItem:  fmt.Sprintf("Assign ownership of %s to a team member. You review, not execute.", bottleneck),
		},
	}
}
