package gamification

import "time"

// Midnight returns the start of t's calendar day in loc
func Midnight(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DaysBetween counts calendar days from a to b in loc. DST shifts do not change the count.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	a = Midnight(a, loc)
	b = Midnight(b, loc)
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua) / (24 * time.Hour))
}

// NextStreak applies one day of activity at now to a streak last active at lastActive.
// A nil lastActive counts as the Unix epoch.
func NextStreak(current int, lastActive *time.Time, now time.Time, loc *time.Location) int {
	last := time.Unix(0, 0)
	if lastActive != nil {
		last = *lastActive
	}

	diff := DaysBetween(last, now, loc)
	switch {
	case diff <= 0:
		return current
	case diff == 1:
		return current + 1
	default:
		return 1
	}
}

// WeekStart returns Sunday 00:00 of t's week in loc
func WeekStart(t time.Time, loc *time.Location) time.Time {
	day := Midnight(t, loc)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// HabitCompletion is the outcome of completing a habit at a point in time
type HabitCompletion struct {
	AlreadyDone bool
	Streak      int
}

// CompleteHabit decides whether a completion at now counts and what the streak becomes.
// A habit counts once per calendar day. Daily streaks grow on consecutive days, weekly
// streaks on consecutive Sunday-based weeks.
func CompleteHabit(daily bool, current int, last *time.Time, now time.Time, loc *time.Location) HabitCompletion {
	if last == nil {
		return HabitCompletion{Streak: 1}
	}
	if DaysBetween(*last, now, loc) <= 0 {
		return HabitCompletion{AlreadyDone: true, Streak: current}
	}

	gap := DaysBetween(*last, now, loc)
	if !daily {
		gap = DaysBetween(WeekStart(*last, loc), WeekStart(now, loc), loc) / 7
	}
	switch gap {
	case 0:
		// another check-in within the same week
		return HabitCompletion{Streak: current}
	case 1:
		return HabitCompletion{Streak: current + 1}
	default:
		return HabitCompletion{Streak: 1}
	}
}
