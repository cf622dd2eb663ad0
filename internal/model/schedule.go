package model

// Schedule is one weekly meeting of a course in a classroom.
type Schedule struct {
	ID          int       `json:"id"`
	CourseID    int       `json:"course_id"`
	ClassroomID int       `json:"classroom_id"`
	Day         Weekday   `json:"day"`
	StartTime   TimeOfDay `json:"start_time"`
	EndTime     TimeOfDay `json:"end_time"`
}

func (s Schedule) GetID() int             { return s.ID }
func (s Schedule) WithID(id int) Schedule { s.ID = id; return s }

// UniqueKey is empty: schedules have no name index.
func (s Schedule) UniqueKey() string { return "" }

// Overlaps reports whether s and o share a classroom and day and their
// [start, end) intervals intersect.
func (s Schedule) Overlaps(o Schedule) bool {
	if s.ClassroomID != o.ClassroomID || s.Day != o.Day {
		return false
	}
	return !(s.EndTime <= o.StartTime || s.StartTime >= o.EndTime)
}

// ScheduleInput is an unvalidated schedule as submitted by a caller. Times
// stay raw strings until the conflict detector parses them.
type ScheduleInput struct {
	ID          int        `json:"id"`
	CourseID    int        `json:"course_id"`
	ClassroomID int        `json:"classroom_id"`
	Classroom   *Classroom `json:"classroom,omitempty"`
	Day         string     `json:"day"`
	StartTime   string     `json:"start_time"`
	EndTime     string     `json:"end_time"`
}

// RoomID returns the classroom id, taken from the embedded classroom when
// the flat field is unset.
func (in ScheduleInput) RoomID() int {
	if in.ClassroomID == 0 && in.Classroom != nil {
		return in.Classroom.ID
	}
	return in.ClassroomID
}

// CreateScheduleRequest is the payload for the stand-alone schedule endpoint.
type CreateScheduleRequest struct {
	CourseID    int    `json:"course_id" binding:"required,min=1"`
	ClassroomID int    `json:"classroom_id" binding:"required,min=1"`
	Day         string `json:"day" binding:"required,weekday"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
}

// Input converts the request to a ScheduleInput.
func (r CreateScheduleRequest) Input() ScheduleInput {
	return ScheduleInput{
		CourseID:    r.CourseID,
		ClassroomID: r.ClassroomID,
		Day:         r.Day,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
	}
}

// SchedulePatch holds the fields of a shallow schedule update.
type SchedulePatch struct {
	CourseID    *int    `json:"course_id" binding:"omitempty,min=1"`
	ClassroomID *int    `json:"classroom_id" binding:"omitempty,min=1"`
	Day         *string `json:"day" binding:"omitempty,weekday"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
}

// Apply merges the patch over the current schedule and returns the result as
// an input so it goes through the same validation as a new schedule.
func (p SchedulePatch) Apply(s Schedule) ScheduleInput {
	in := ScheduleInput{
		ID:          s.ID,
		CourseID:    s.CourseID,
		ClassroomID: s.ClassroomID,
		Day:         string(s.Day),
		StartTime:   s.StartTime.String(),
		EndTime:     s.EndTime.String(),
	}
	if p.CourseID != nil {
		in.CourseID = *p.CourseID
	}
	if p.ClassroomID != nil {
		in.ClassroomID = *p.ClassroomID
	}
	if p.Day != nil {
		in.Day = *p.Day
	}
	if p.StartTime != nil {
		in.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		in.EndTime = *p.EndTime
	}
	return in
}

// ScheduleDetail is a schedule with its classroom embedded for display.
// ClassroomID is kept for identity comparisons.
type ScheduleDetail struct {
	Schedule
	Classroom Classroom `json:"classroom"`
}
