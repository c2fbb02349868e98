package member

import (
	"time"

	"fitclub/internal/schedule"
)

// DateLayout is the accepted date of birth format.
const DateLayout = "2006-01-02"

type Member struct {
	ID          int        `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Email       string     `db:"email" json:"email"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender      string     `db:"gender" json:"gender"`
	Phone       string     `db:"phone" json:"phone"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

type FitnessGoal struct {
	ID             int       `db:"id" json:"id"`
	MemberID       int       `db:"member_id" json:"member_id"`
	Description    string    `db:"description" json:"description"`
	TargetWeightKg *float64  `db:"target_weight_kg" json:"target_weight_kg,omitempty"`
	TargetBodyFat  *float64  `db:"target_body_fat" json:"target_body_fat,omitempty"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type HealthMetric struct {
	ID           int       `db:"id" json:"id"`
	MemberID     int       `db:"member_id" json:"member_id"`
	HeightCm     *float64  `db:"height_cm" json:"height_cm,omitempty"`
	WeightKg     *float64  `db:"weight_kg" json:"weight_kg,omitempty"`
	HeartRateBpm *float64  `db:"heart_rate_bpm" json:"heart_rate_bpm,omitempty"`
	RecordedAt   time.Time `db:"recorded_at" json:"recorded_at"`
}

type Dashboard struct {
	Member             Member               `json:"member"`
	LatestMetric       *HealthMetric        `json:"latest_metric"`
	ActiveGoal         *FitnessGoal         `json:"active_goal"`
	PastClassesCount   int                  `json:"past_classes_count"`
	UpcomingPTSessions []schedule.PTSession `json:"upcoming_pt_sessions"`
}

type SearchResult struct {
	Member     Member        `json:"member"`
	LastMetric *HealthMetric `json:"last_metric"`
	ActiveGoal *FitnessGoal  `json:"active_goal"`
}

// ProfileUpdate carries the non-empty fields of a profile edit. A non-empty
// GoalDescription replaces the member's active goal.
type ProfileUpdate struct {
	Name            string
	Gender          string
	Phone           string
	GoalDescription string
	TargetWeightKg  *float64
	Now             time.Time
}

type RegisterMemberRequest struct {
	Name        string `json:"name" binding:"required,max=120" example:"Sam Park"`
	Email       string `json:"email" binding:"required,email,max=120" example:"sam@example.com"`
	DateOfBirth string `json:"date_of_birth" example:"1990-04-12"`
	Gender      string `json:"gender" binding:"max=20" example:"F"`
	Phone       string `json:"phone" binding:"max=30" example:"+1 555 0100"`
}

type UpdateProfileRequest struct {
	Name            string   `json:"name" binding:"max=120"`
	Gender          string   `json:"gender" binding:"max=20"`
	Phone           string   `json:"phone" binding:"max=30"`
	GoalDescription string   `json:"goal_description" binding:"max=255" example:"Run a 10k"`
	TargetWeightKg  *float64 `json:"target_weight_kg" binding:"omitempty,gt=0" example:"72.5"`
}

type AddHealthMetricRequest struct {
	HeightCm     *float64 `json:"height_cm" binding:"omitempty,gt=0" example:"178"`
	WeightKg     *float64 `json:"weight_kg" binding:"omitempty,gt=0" example:"80.2"`
	HeartRateBpm *float64 `json:"heart_rate_bpm" binding:"omitempty,gt=0" example:"64"`
}
