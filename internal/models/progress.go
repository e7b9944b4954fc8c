package models

import "time"

const (
	EnrollmentInProgress = "in-progress"
	EnrollmentActive     = "active"
	EnrollmentPaused     = "paused"
	EnrollmentCompleted  = "completed"
)

// Enrollment tracks a user's position in one program.
type Enrollment struct {
	ProgramID         string     `bson:"programId" json:"programId"`
	ProgramName       string     `bson:"programName" json:"programName"`
	StartDate         time.Time  `bson:"startDate" json:"startDate"`
	CurrentPhase      int        `bson:"currentPhase" json:"currentPhase"`
	CurrentDay        int        `bson:"currentDay" json:"currentDay"`
	CompletedWorkouts int        `bson:"completedWorkouts" json:"completedWorkouts"`
	TotalWorkouts     int        `bson:"totalWorkouts" json:"totalWorkouts"`
	Status            string     `bson:"status" json:"status"`
	LastWorkoutDate   *time.Time `bson:"lastWorkoutDate,omitempty" json:"lastWorkoutDate,omitempty"`
}

// UserProgress holds all of a user's enrollments as one document,
// at most one per user.
type UserProgress struct {
	ID             string       `bson:"_id" json:"-"`
	UserID         string       `bson:"userId" json:"userId"`
	ActivePrograms []Enrollment `bson:"activePrograms" json:"activePrograms"`
	UpdatedAt      time.Time    `bson:"updatedAt" json:"updatedAt"`
}

// Enrollment returns the enrollment for programID, or nil.
func (p *UserProgress) Enrollment(programID string) *Enrollment {
	for i := range p.ActivePrograms {
		if p.ActivePrograms[i].ProgramID == programID {
			return &p.ActivePrograms[i]
		}
	}
	return nil
}
