package report

import (
	"math"
	"strconv"
	"strings"

	"clarity-backend/internal/diagnostic/intake"
)

// Range is a low/high dollar band.
type Range struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

func (r Range) plus(other Range) Range {
	return Range{Low: r.Low + other.Low, High: r.High + other.High}
}

// LowValueHoursCost is founder time spent on work below the founder's rate.
type LowValueHoursCost struct {
	WeeklyHours int   `json:"weeklyHours"`
	HourlyRate  int   `json:"hourlyRate"`
	AnnualCost  Range `json:"annualCost"`
}

// RevenueLeakage is revenue lost to operational delays. It is only
// estimated when the founder acknowledges leakage.
type RevenueLeakage struct {
	Acknowledged    bool  `json:"acknowledged"`
	RevenueMidpoint int   `json:"revenueMidpoint"`
	Estimate        Range `json:"estimate"`
}

// ToolZombieCost is spend on subscriptions nobody uses.
type ToolZombieCost struct {
	Count        int `json:"count"`
	MonthlyWaste int `json:"monthlyWaste"`
	AnnualWaste  int `json:"annualWaste"`
}

// CostConfidence says how much of the friction estimate rests on answers
// rather than assumptions.
type CostConfidence string

const (
	ConfidenceEstimated   CostConfidence = "ESTIMATED"
	ConfidenceRough       CostConfidence = "ROUGH"
	ConfidenceDirectional CostConfidence = "DIRECTIONAL"
)

// FrictionCost is the annual cost of the constraint.
type FrictionCost struct {
	LowValueHoursCost LowValueHoursCost `json:"lowValueHoursCost"`
	RevenueLeakage    RevenueLeakage    `json:"revenueLeakage"`
	ToolZombieCost    ToolZombieCost    `json:"toolZombieCost"`
	TotalRange        Range             `json:"totalRange"`
	ConfidenceLevel   CostConfidence    `json:"confidenceLevel"`
}

const (
	workWeeksPerYear   = 48
	zombieMonthlyPrice = 50
)

type midpoint struct {
	sub   string
	value int
}

var serviceRates = []midpoint{
	{"Under $50", 40},
	{"$50 - $100", 75},
	{"$100 - $150", 125},
	{"$250+", 300},
	{"$150 - $250", 200},
}

var lowValueHours = []midpoint{
	{"10+", 12},
	{"6-10", 8},
	{"1-5", 3},
}

func lookup(table []midpoint, answer string) int {
	if answer == "" {
		return 0
	}
	for _, m := range table {
		if strings.Contains(answer, m.sub) {
			return m.value
		}
	}
	return 0
}

// band widens a point estimate by 20% either side.
func band(point float64) Range {
	return Range{Low: int(math.Round(point * 0.8)), High: int(math.Round(point * 1.2))}
}

func frictionCost(r intake.Response, rc RevenueContext) FrictionCost {
	rate := lookup(serviceRates, r.Text(keyServiceRate))
	hours := lookup(lowValueHours, r.Text(keyLowValueHours))

	fc := FrictionCost{
		LowValueHoursCost: LowValueHoursCost{WeeklyHours: hours, HourlyRate: rate},
		RevenueLeakage: RevenueLeakage{
			Acknowledged:    r.Is(keyLeakage, "Yes"),
			RevenueMidpoint: rc.Midpoint,
		},
	}
	if rate > 0 && hours > 0 {
		fc.LowValueHoursCost.AnnualCost = band(float64(hours * rate * workWeeksPerYear))
	}
	if fc.RevenueLeakage.Acknowledged && rc.Midpoint > 0 {
		fc.RevenueLeakage.Estimate = Range{
			Low:  int(math.Round(float64(rc.Midpoint) * 0.03)),
			High: int(math.Round(float64(rc.Midpoint) * 0.08)),
		}
	}
	if r.Contains(keyToolZombieCheck, "Yes") {
		n := r.Dollars(keyToolZombieCount)
		fc.ToolZombieCost = ToolZombieCost{
			Count:        n,
			MonthlyWaste: n * zombieMonthlyPrice,
			AnnualWaste:  n * zombieMonthlyPrice * 12,
		}
	}

	zombies := Range{Low: fc.ToolZombieCost.AnnualWaste, High: fc.ToolZombieCost.AnnualWaste}
	fc.TotalRange = fc.LowValueHoursCost.AnnualCost.plus(fc.RevenueLeakage.Estimate).plus(zombies)

	switch {
	case rate > 0 && rc.Midpoint > 0:
		fc.ConfidenceLevel = ConfidenceEstimated
	case rate > 0 || rc.Midpoint > 0:
		fc.ConfidenceLevel = ConfidenceRough
	default:
		fc.ConfidenceLevel = ConfidenceDirectional
	}
	return fc
}

// Scale is the revenue tier used to set the tone of recommendations.
type Scale string

const (
	ScaleMicro       Scale = "MICRO"
	ScaleSmall       Scale = "SMALL"
	ScaleGrowth      Scale = "GROWTH"
	ScaleScaling     Scale = "SCALING"
	ScaleEstablished Scale = "ESTABLISHED"
	ScaleUnknown     Scale = "UNKNOWN"
)

// RevenueContext places the business on the revenue ladder.
type RevenueContext struct {
	Range    string `json:"range"`
	Midpoint int    `json:"midpoint"`
	Scale    Scale  `json:"scale"`
	Context  string `json:"context"`
}

var revenueScales = []struct {
	sub      string
	midpoint int
	scale    Scale
	context  string
}{
	{"Under $100k", 75_000, ScaleMicro, "At this size every founder hour is a direct revenue decision."},
	{"$100k - $250k", 175_000, ScaleSmall, "At this size the first operational hires decide whether growth sticks."},
	{"$250k - $500k", 375_000, ScaleGrowth, "At this size informal systems start costing real money."},
	{"$500k - $1M", 750_000, ScaleScaling, "At this size founder dependency caps what the business is worth."},
	{"Over $1M", 1_500_000, ScaleEstablished, "At this size the business needs a leadership layer, not a hero."},
}

func revenueContext(r intake.Response) RevenueContext {
	answer := r.Text(keyRevenueRange)
	for _, s := range revenueScales {
		if answer != "" && strings.Contains(answer, s.sub) {
			return RevenueContext{Range: answer, Midpoint: s.midpoint, Scale: s.scale, Context: s.context}
		}
	}
	return RevenueContext{
		Range:   answer,
		Scale:   ScaleUnknown,
		Context: "Revenue wasn't shared, so recommendations assume a small owner-led team.",
	}
}

// smallScale reports revenue under $250k, or unknown revenue.
func (rc RevenueContext) smallScale() bool {
	switch rc.Scale {
	case ScaleGrowth, ScaleScaling, ScaleEstablished:
		return false
	default:
		return true
	}
}

// dollars renders whole dollars with thousands separators.
func dollars(n int) string {
	s := strconv.Itoa(n)
	var b strings.Builder
	b.WriteByte('$')
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (r Range) String() string {
	return dollars(r.Low) + " to " + dollars(r.High)
}
