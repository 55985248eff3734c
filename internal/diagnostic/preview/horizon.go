package preview

import (
	"fmt"

	"clarity-backend/internal/diagnostic/intake"
	o "clarity-backend/internal/diagnostic/options"
)

// Horizon estimates how long the current operating model can hold.
type Horizon struct {
	Label         string   `json:"label"`
	PressureLevel string   `json:"pressureLevel"`
	Pressure      int      `json:"pressure"`
	Description   string   `json:"description"`
	Factors       []string `json:"factors"`
}

type pressure struct {
	holds  func(intake.Response) bool
	points int
	factor string
}

var trackPressures = map[intake.Track][]pressure{
	intake.TrackA: {
		{overbooked, 15, "Schedule is overbooked"},
		{func(r intake.Response) bool { return r.Is(o.GrowthLimiter, o.LimiterTime) }, 10, "Growth is limited by the founder's hours"},
		{func(r intake.Response) bool { return r.Is(o.HiringSituation, o.HiringHardToFind) }, 10, "Talent is hard to find"},
	},
	intake.TrackB: {
		{func(r intake.Response) bool {
			return r.Is(o.InterruptionFrequency, o.InterruptConstantly) || nonStopSwitching(r)
		}, 15, "Constant decision interruptions"},
		{func(r intake.Response) bool { return r.Contains(keyMentalEnergy, "Fried") }, 15, "Founder ends the day cognitively fried"},
		{func(r intake.Response) bool { return r.Contains(keyMentalEnergy, "Drained") }, 10, "Founder is consistently drained"},
		{func(r intake.Response) bool { return r.ContainsAny(keyDecisionBacklog, "10+", "Lost count") }, 10, "Decision backlog is out of control"},
	},
	intake.TrackC: {
		{func(r intake.Response) bool {
			return r.ContainsAny(keyRevenueDependency, "Goes to zero", "Drops significantly") || r.Is(o.ClientRelationship, o.ClientsHireMe)
		}, 15, "Revenue follows the founder personally"},
		{func(r intake.Response) bool { return r.Contains(keyIdentityAttachment, "I AM the work") }, 10, "Founder identity is tied to the work"},
		{func(r intake.Response) bool { return r.Contains(keyClientExpectation, "Only me") }, 10, "Clients expect only the founder"},
	},
}

var universalPressures = []pressure{
	{docsInHead, 10, "No documented processes"},
	{func(r intake.Response) bool { return r.Is(o.RevenueGeneration, o.RevenueFounderMajority) }, 10, "Founder delivers the service full-time"},
	{func(r intake.Response) bool { return r.ContainsFold(keyDelegationBlocker, "no one") }, 10, "No one to delegate to"},
	{func(r intake.Response) bool { return len(r.Items(keyResponsibilities)) >= 5 }, 10, "Founder responsibilities have sprawled past five areas"},
}

var dependencyPressure = map[DependencyLevel]int{
	DependencyCritical: 30,
	DependencyHigh:     20,
	DependencyModerate: 10,
}

func sustainabilityHorizon(track intake.Track, r intake.Response, level DependencyLevel) Horizon {
	total := 0
	factors := make([]string, 0)
	if pts := dependencyPressure[level]; pts > 0 {
		total += pts
		factors = append(factors, fmt.Sprintf("Founder dependency is %s", level))
	}
	for _, p := range trackPressures[track] {
		if p.holds(r) {
			total += p.points
			factors = append(factors, p.factor)
		}
	}
	for _, p := range universalPressures {
		if p.holds(r) {
			total += p.points
			factors = append(factors, p.factor)
		}
	}
	total = clamp(total)

	h := Horizon{Pressure: total, Factors: factors}
	switch {
	case total >= 70:
		h.Label, h.PressureLevel = "Short", "critical"
		h.Description = "At the current pressure the operating model has months, not years, before something gives."
	case total >= 50:
		h.Label, h.PressureLevel = "Narrowing", "high"
		h.Description = "Pressure is building faster than capacity, and the window to restructure calmly is closing."
	case total >= 30:
		h.Label, h.PressureLevel = "Moderate", "moderate"
		h.Description = "The business can hold its current shape for now, but pressure will rise with growth."
	default:
		h.Label, h.PressureLevel = "Stable", "low"
		h.Description = "Current pressure is manageable and the structure can absorb normal growth."
	}
	return h
}
