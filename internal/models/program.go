package models

import "time"

type Exercise struct {
	Name  string `bson:"name" json:"name"`
	Type  string `bson:"type,omitempty" json:"type,omitempty"`
	Sets  int    `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps  string `bson:"reps,omitempty" json:"reps,omitempty"`
	Rest  string `bson:"rest,omitempty" json:"rest,omitempty"`
	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`
}

type Workout struct {
	Day       int        `bson:"day" json:"day"`
	Title     string     `bson:"title" json:"title"`
	Exercises []Exercise `bson:"exercises" json:"exercises"`
}

type Phase struct {
	Name     string    `bson:"name" json:"name"`
	Weeks    string    `bson:"weeks,omitempty" json:"weeks,omitempty"`
	Workouts []Workout `bson:"workouts" json:"workouts"`
}

// Program is a training program in the catalog, keyed by its slug
// (ProgramID) rather than the document id.
type Program struct {
	ID          string    `bson:"_id" json:"-"`
	ProgramID   string    `bson:"programId" json:"programId"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Duration    string    `bson:"duration,omitempty" json:"duration,omitempty"`
	DaysPerWeek int       `bson:"daysPerWeek,omitempty" json:"daysPerWeek,omitempty"`
	Goal        string    `bson:"goal,omitempty" json:"goal,omitempty"`
	Level       string    `bson:"level,omitempty" json:"level,omitempty"`
	Equipment   []string  `bson:"equipment,omitempty" json:"equipment,omitempty"`
	Phases      []Phase   `bson:"phases" json:"phases"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// TotalWorkouts counts the workouts across all phases.
func (p *Program) TotalWorkouts() int {
	total := 0
	for _, phase := range p.Phases {
		total += len(phase.Workouts)
	}
	return total
}
