package models

import "time"

// Badge represents an achievement badge that users can earn
// by reaching certain milestones.
type Badge struct {
	ID          int64     `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Icon        string    `json:"icon" db:"icon"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// UserBadge is a badge earned by a user
type UserBadge struct {
	Badge
	EarnedAt time.Time `json:"earnedAt" db:"earned_at"`
}
