package model

import (
	"time"
)

type Draw struct {
	ID           int64      `json:"id"`
	GameID       int64      `json:"game_id"`
	DrawDatetime time.Time  `json:"draw_datetime"`
	Game         *Game      `json:"game,omitempty"`
	Notified     bool       `json:"notified"`
	NotifiedAt   *time.Time `json:"notified_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
