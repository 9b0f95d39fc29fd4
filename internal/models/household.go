package models

import "time"

type Household struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	JoinCode  string    `json:"join_code"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	AvatarColor string    `json:"avatar_color"`
	AvatarEmoji string    `json:"avatar_emoji"`
	HouseholdID string    `json:"household_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
