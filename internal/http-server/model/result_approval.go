package model

import (
	"time"

	"resultpost/internal/config"
)

type ResultApproval struct {
	ID        int64           `json:"id"`
	ResultID  int64           `json:"result_id"`
	ManagerID int64           `json:"manager_id"`
	Decision  config.Decision `json:"decision"`
	Note      *string         `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
