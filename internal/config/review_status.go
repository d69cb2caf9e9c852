package config

type ReviewStatus string

const (
	PendingReview    ReviewStatus = "pending_review"
	Approved         ReviewStatus = "approved"
	ChangesRequested ReviewStatus = "changes_requested"
)

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)
