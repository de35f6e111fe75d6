// Package gamification holds the XP, coin, streak and badge rules.
// Everything here is pure: callers pass in time, location and randomness.
package gamification

import (
	"math"
	"time"
)

const (
	// XPPerMinute is awarded for every whole focused minute
	XPPerMinute = 10
	// LevelUpBonusCoins is paid per level gained
	LevelUpBonusCoins = 100
	// TaskCompletionCoins is paid once per task
	TaskCompletionCoins = 10
	// QuizXPPerCorrect is awarded per correct quiz answer
	QuizXPPerCorrect = 50

	sessionCoinMinutes = 5
	maxSessionCoins    = 50
	xpPerLevelUnit     = 100
)

// Level returns floor(sqrt(xp/100)) + 1, or 1 for negative xp
func Level(xp int) int {
	if xp < 0 {
		return 1
	}
	n := int(math.Sqrt(float64(xp) / xpPerLevelUnit))
	// correct float rounding at perfect squares
	for xpPerLevelUnit*(n+1)*(n+1) <= xp {
		n++
	}
	for n > 0 && xpPerLevelUnit*n*n > xp {
		n--
	}
	return n + 1
}

// XPForLevel is the minimum XP needed to reach level
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return xpPerLevelUnit * (level - 1) * (level - 1)
}

// XPAward describes the outcome of adding XP to a user
type XPAward struct {
	OldXP      int  `json:"oldXp"`
	NewXP      int  `json:"newXp"`
	Earned     int  `json:"earned"`
	OldLevel   int  `json:"oldLevel"`
	NewLevel   int  `json:"newLevel"`
	LeveledUp  bool `json:"leveledUp"`
	BonusCoins int  `json:"bonusCoins"`
}

// ApplyXP adds earned XP and computes the level-up bonus
func ApplyXP(oldXP, earned int) XPAward {
	newXP := oldXP + earned
	award := XPAward{
		OldXP:    oldXP,
		NewXP:    newXP,
		Earned:   earned,
		OldLevel: Level(oldXP),
		NewLevel: Level(newXP),
	}
	if award.NewLevel > award.OldLevel {
		award.LeveledUp = true
		award.BonusCoins = LevelUpBonusCoins * (award.NewLevel - award.OldLevel)
	}
	return award
}

// LevelProgress is how far a user is through the current level
type LevelProgress struct {
	Level          int `json:"level"`
	XP             int `json:"xp"`
	CurrentLevelXP int `json:"currentLevelXp"`
	NextLevelXP    int `json:"nextLevelXp"`
	Percent        int `json:"progress"`
}

// Progress computes progress towards the next level as 0..100
func Progress(xp int) LevelProgress {
	if xp < 0 {
		xp = 0
	}
	level := Level(xp)
	floor := XPForLevel(level)
	next := XPForLevel(level + 1)

	percent := 0
	if span := next - floor; span > 0 {
		percent = (xp - floor) * 100 / span
	}
	return LevelProgress{
		Level:          level,
		XP:             xp,
		CurrentLevelXP: floor,
		NextLevelXP:    next,
		Percent:        percent,
	}
}

// SessionXP is the XP for a session of the given whole minutes
func SessionXP(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	return minutes * XPPerMinute
}

// SessionCoins pays 1 coin per 5 minutes, capped at 50, nothing under 5 minutes
func SessionCoins(minutes int) int {
	if minutes < sessionCoinMinutes {
		return 0
	}
	coins := minutes / sessionCoinMinutes
	if coins > maxSessionCoins {
		coins = maxSessionCoins
	}
	return coins
}

// FocusScore returns explicit when set (clamped to 0..100), otherwise a duration based score.
// intn must behave like rand.Intn.
func FocusScore(minutes int, explicit *int, intn func(int) int) int {
	if explicit != nil {
		score := *explicit
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}
		return score
	}

	switch {
	case minutes < 5:
		return 50
	case minutes > 25:
		return 100
	default:
		return 80 + intn(20)
	}
}

// SplitDuration truncates elapsed to whole seconds and minutes
func SplitDuration(elapsed time.Duration) (seconds, minutes int) {
	if elapsed < 0 {
		return 0, 0
	}
	seconds = int(elapsed / time.Second)
	return seconds, seconds / 60
}
