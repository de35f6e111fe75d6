package gamification

import "time"

// Badge codes
const (
	BadgeFirstTask   = "FIRST_TASK"
	BadgeTaskMaster  = "TASK_MASTER"
	BadgeFocusNovice = "FOCUS_NOVICE"
	BadgeDeepWorker  = "DEEP_WORKER"
	BadgeEarlyBird   = "EARLY_BIRD"
	BadgeStreakWeek  = "STREAK_WEEK"
)

// Facts are the aggregates badge predicates look at
type Facts struct {
	CompletedTasks    int
	CompletedSessions int
	TotalFocusSeconds int
	Streak            int
	LastSessionEnd    *time.Time
}

// BadgeDefinition is a badge and the predicate that unlocks it
type BadgeDefinition struct {
	Code        string
	Name        string
	Description string
	Icon        string
	earned      func(f Facts, loc *time.Location) bool
}

// Earned reports whether the facts satisfy this badge
func (b BadgeDefinition) Earned(f Facts, loc *time.Location) bool {
	return b.earned(f, loc)
}

var catalog = []BadgeDefinition{
	{
		Code:        BadgeFirstTask,
		Name:        "First Step",
		Description: "Complete your first task",
		Icon:        "footprints",
		earned:      func(f Facts, _ *time.Location) bool { return f.CompletedTasks >= 1 },
	},
	{
		Code:        BadgeTaskMaster,
		Name:        "Task Master",
		Description: "Complete 100 tasks",
		Icon:        "trophy",
		earned:      func(f Facts, _ *time.Location) bool { return f.CompletedTasks >= 100 },
	},
	{
		Code:        BadgeFocusNovice,
		Name:        "Focus Novice",
		Description: "Complete your first focus session",
		Icon:        "timer",
		earned:      func(f Facts, _ *time.Location) bool { return f.CompletedSessions >= 1 },
	},
	{
		Code:        BadgeDeepWorker,
		Name:        "Deep Worker",
		Description: "Accumulate 10 hours of focus time",
		Icon:        "brain",
		earned:      func(f Facts, _ *time.Location) bool { return f.TotalFocusSeconds >= 10*3600 },
	},
	{
		Code:        BadgeEarlyBird,
		Name:        "Early Bird",
		Description: "Finish a focus session between 4am and 8am",
		Icon:        "sunrise",
		earned: func(f Facts, loc *time.Location) bool {
			if f.LastSessionEnd == nil {
				return false
			}
			if loc == nil {
				loc = time.Local
			}
			hour := f.LastSessionEnd.In(loc).Hour()
			return hour >= 4 && hour < 8
		},
	},
	{
		Code:        BadgeStreakWeek,
		Name:        "Consistency King",
		Description: "Keep a 7 day streak",
		Icon:        "crown",
		earned:      func(f Facts, _ *time.Location) bool { return f.Streak >= 7 },
	},
}

// Catalog returns every badge definition
func Catalog() []BadgeDefinition {
	out := make([]BadgeDefinition, len(catalog))
	copy(out, catalog)
	return out
}

// EarnedBadges returns every badge whose predicate holds, in catalog order
func EarnedBadges(f Facts, loc *time.Location) []BadgeDefinition {
	var out []BadgeDefinition
	for _, b := range catalog {
		if b.Earned(f, loc) {
			out = append(out, b)
		}
	}
	return out
}
