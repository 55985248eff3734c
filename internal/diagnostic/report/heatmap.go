package report

import "clarity-backend/internal/diagnostic/intake"

// HeatStatus is the health of one pipeline stage.
type HeatStatus string

const (
	HeatGreen   HeatStatus = "GREEN"
	HeatYellow  HeatStatus = "YELLOW"
	HeatRed     HeatStatus = "RED"
	HeatUnknown HeatStatus = "UNKNOWN"
)

// HeatmapStage is one row of the process heatmap.
type HeatmapStage struct {
	Name   string     `json:"name"`
	Status HeatStatus `json:"status"`
	Signal string     `json:"signal"`
}

const (
	needsAnalysis  = "Needs analysis"
	noneIdentified = "None identified"
)

type heatCheck struct {
	holds  pred
	status HeatStatus
	signal string
}

var heatmapStages = []struct {
	name      string
	rootCause string
	checks    []heatCheck
}{
	{"Lead Gen", "No system captures inbound interest", []heatCheck{
		{contains(keyLeadGen, "CRM"), HeatGreen, "Leads auto-captured in CRM"},
		{contains(keyLeadGen, "Manual"), HeatYellow, "Manual lead entry required"},
		{contains(keyLeadGen, "inbox"), HeatRed, "Leads live in inbox/DMs"},
	}},
	{"Triage", "Every prospect routes through founder", []heatCheck{
		{contains(keyQualification, "autonomously"), HeatGreen, "Team qualifies independently"},
		{contains(keyQualification, "initial screening"), HeatYellow, "Team screens, founder makes final call"},
		{contains(keyQualification, "personally screen"), HeatRed, "Founder screens every client"},
		{contains(keyQualification, "No formal"), HeatRed, "No screening process"},
	}},
	{"Sales", "Proposals bottleneck at founder", []heatCheck{
		{contains(keySalesCommitment, "No - team"), HeatGreen, "Team uses templates independently"},
		{contains(keySalesCommitment, "I approve"), HeatYellow, "Founder approves all proposals"},
		{contains(keySalesCommitment, "Yes"), HeatRed, "Founder writes everything"},
	}},
	{"Onboarding", "Onboarding is manual and founder-dependent", []heatCheck{
		{contains(keyOnboarding, "Fully automated"), HeatGreen, "Automated or team-handled"},
		{contains(keyOnboarding, "Partially"), HeatYellow, "Partially automated"},
		{contains(keyOnboarding, "personally manage"), HeatRed, "Founder manages all onboarding"},
	}},
	{"Fulfillment", "Team can't execute without constant guidance", []heatCheck{
		{contains(keyFulfillment, "Always", "Mostly"), HeatGreen, "Team delivers autonomously"},
		{contains(keyFulfillment, "Sometimes"), HeatYellow, "Occasional clarification needed"},
		{contains(keyFulfillment, "Never"), HeatRed, "Constant guidance required"},
	}},
	{"Review", "All quality control defaults to founder", []heatCheck{
		{contains(keyReviewQC, "No - team"), HeatGreen, "Team handles QC independently"},
		{contains(keyReviewQC, "Only for specific"), HeatYellow, "Founder reviews edge cases only"},
		{contains(keyReviewQC, "Yes"), HeatRed, "Founder reviews everything"},
	}},
	{"Close-Out", "Process not defined", []heatCheck{
		{contains(keyCloseOut, "Yes"), HeatGreen, "Fully automated close-out"},
		{contains(keyCloseOut, "Partially"), HeatYellow, "Partially automated"},
		{contains(keyCloseOut, "No"), HeatYellow, "Manual close-out process"},
	}},
}

func heatmap(r intake.Response) []HeatmapStage {
	out := make([]HeatmapStage, 0, len(heatmapStages))
	for _, s := range heatmapStages {
		stage := HeatmapStage{Name: s.name, Status: HeatUnknown, Signal: needsAnalysis}
		for _, c := range s.checks {
			if c.holds(r) {
				stage.Status = c.status
				stage.Signal = c.signal
				break
			}
		}
		out = append(out, stage)
	}
	return out
}

// bottleneckStage is the first RED stage, else the first YELLOW one.
func bottleneckStage(stages []HeatmapStage) string {
	for _, want := range []HeatStatus{HeatRed, HeatYellow} {
		for _, s := range stages {
			if s.Status == want {
				return s.Name
			}
		}
	}
	return noneIdentified
}

func stageRootCause(name string) string {
	for _, s := range heatmapStages {
		if s.name == name {
			return s.rootCause
		}
	}
	return "Process not defined"
}
