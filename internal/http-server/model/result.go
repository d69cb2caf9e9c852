package model

import (
	"time"

	"resultpost/internal/config"
)

type Result struct {
	ID             int64               `json:"id"`
	DrawID         int64               `json:"draw_id"`
	Draw           *Draw               `json:"draw,omitempty"`
	WinningNumbers string              `json:"winning_numbers"`
	MachineNumbers *string             `json:"machine_numbers,omitempty"`
	ShareCopy      string              `json:"share_copy"`
	ShareHashtags  []string            `json:"share_hashtags"`
	ShareTargets   []string            `json:"share_targets"`
	Status         config.ReviewStatus `json:"status"`
	Verified       bool                `json:"verified"`
	VerifiedAt     *time.Time          `json:"verified_at,omitempty"`
	SubmittedByID  *int64              `json:"submitted_by_id,omitempty"`
	Approvals      []ResultApproval    `json:"approvals"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}
