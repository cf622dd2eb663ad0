package model

// Course is the stored course record. Name is unique across courses.
type Course struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	OwnerUserID int    `json:"owner_user_id"`
}

func (c Course) GetID() int           { return c.ID }
func (c Course) WithID(id int) Course { c.ID = id; return c }
func (c Course) UniqueKey() string    { return c.Name }

// CoursePatch holds the fields of a shallow course update. Nil means unchanged.
type CoursePatch struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=150"`
	OwnerUserID *int    `json:"owner_user_id" binding:"omitempty,min=1"`
}

// Apply merges the non-nil fields of p into c.
func (p CoursePatch) Apply(c Course) Course {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.OwnerUserID != nil {
		c.OwnerUserID = *p.OwnerUserID
	}
	return c
}

// CourseProgram links a course to a program. A pair is stored at most once.
type CourseProgram struct {
	CourseID  int `json:"course_id"`
	ProgramID int `json:"program_id"`
}

// FullCourse is the denormalized read view of a course. It is always built
// from store state and never stored.
type FullCourse struct {
	Course
	Programs  []Program        `json:"programs"`
	Schedules []ScheduleDetail `json:"schedules"`
	Professor Professor        `json:"professor"`
}

// FullCourseInput is the desired shape submitted to a full-course save.
// ID is zero when the course is not known yet.
type FullCourseInput struct {
	ID        int             `json:"id"`
	Name      string          `json:"name" binding:"required,min=1,max=150"`
	Programs  []ProgramInput  `json:"programs" binding:"dive"`
	Schedules []ScheduleInput `json:"schedules" binding:"dive"`
}

// ProgramInput references a program by name, falling back to ID when the
// name is empty. Unknown names are created with the given description.
type ProgramInput struct {
	ID          int    `json:"id"`
	Name        string `json:"name" binding:"max=150"`
	Description string `json:"description" binding:"max=1000"`
}

// SyncFailure kinds.
const (
	SyncKindProgram  = "program"
	SyncKindSchedule = "schedule"
)

// SyncFailure reports one item a full-course save could not apply.
type SyncFailure struct {
	Kind    string `json:"kind"`
	Ref     string `json:"ref"`
	Code    string `json:"code"`
	Err     error  `json:"-"`
	Message string `json:"message"`
}

func (f SyncFailure) Error() string { return f.Kind + " " + f.Ref + ": " + f.Message }

func (f SyncFailure) Unwrap() error { return f.Err }

// SaveResult is the outcome of a full-course save: the reconciled view plus
// the per-item failures that did not abort the save.
type SaveResult struct {
	Course   FullCourse    `json:"course"`
	Created  bool          `json:"created"`
	Failures []SyncFailure `json:"failures"`
}
