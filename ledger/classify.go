package ledger

import "fmt"

type Tier string

const (
	TierRegular     Tier = "regular"
	TierApproaching Tier = "approaching"
	TierOvertime    Tier = "overtime"
	TierDoubleTime  Tier = "double_time"
)

// Classification is the labor-rule tier for one worker-day. The tier is a
// display status; payroll reads the hour buckets on DaySummary, so showing
// the daily tier never loses weekly overtime hours.
type Classification struct {
	Tier        Tier    `json:"tier"`
	Multiplier  float64 `json:"multiplier"`
	DailyExtra  float64 `json:"daily_extra"`
	WeeklyExtra float64 `json:"weekly_extra"`
	Message     string  `json:"message"`
}

// Classify maps a day's hours plus the week-to-date hours before that day
// onto a tier. Thresholds follow California rules: over 12h daily pays
// double, over 8h daily pays time-and-a-half, over 40h weekly pays
// time-and-a-half. Daily rules win over the weekly rule for display, and a
// 7h warning tier fires before any pay impact. First match wins, top down.
func Classify(dailyHours, weekToDateHours float64) Classification {
	weekTotal := weekToDateHours + dailyHours

	switch {
	case dailyHours > 12:
		return Classification{
			Tier:       TierDoubleTime,
			Multiplier: 2.0,
			DailyExtra: dailyHours - 12,
			Message:    "Double time (12+ hours today)",
		}
	case dailyHours > 8:
		return Classification{
			Tier:       TierOvertime,
			Multiplier: 1.5,
			DailyExtra: dailyHours - 8,
			Message:    fmt.Sprintf("Overtime (%.1f hours over 8 today)", dailyHours-8),
		}
	case weekTotal > 40:
		// The weekly pay rule outranks the informational warning tier:
		// otherwise a worker crossing 7h late in a heavy week would drop
		// from a 1.5x tier back to a 1.0x one as hours increase.
		return Classification{
			Tier:        TierOvertime,
			Multiplier:  1.5,
			WeeklyExtra: weekTotal - 40,
			Message:     fmt.Sprintf("Weekly overtime (%.1f hours over 40 this week)", weekTotal-40),
		}
	case dailyHours > 7:
		return Classification{
			Tier:       TierApproaching,
			Multiplier: 1.0,
			Message:    "Approaching overtime (8 hour limit)",
		}
	default:
		return Classification{Tier: TierRegular, Multiplier: 1.0, Message: "Regular hours"}
	}
}
