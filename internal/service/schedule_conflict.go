package service

import (
	"fmt"

	"github.com/stemsi/academia-backend/internal/model"
)

// CheckSchedule validates candidate and checks it against the stored
// schedules. selfID is the id of the schedule being updated, or zero for a
// new one, and is never compared against itself. The returned schedule has
// parsed times and the resolved classroom id.
//
// Callers run it inside the schedule table's critical section so the check
// and the write that follows are atomic.
func CheckSchedule(candidate model.ScheduleInput, selfID int, existing []model.Schedule) (model.Schedule, error) {
	start, err := model.ParseTimeOfDay(candidate.StartTime)
	if err != nil {
		return model.Schedule{}, fmt.Errorf("start time: %w", err)
	}
	end, err := model.ParseTimeOfDay(candidate.EndTime)
	if err != nil {
		return model.Schedule{}, fmt.Errorf("end time: %w", err)
	}
	day, err := model.ParseWeekday(candidate.Day)
	if err != nil {
		return model.Schedule{}, err
	}
	if !start.Before(end) {
		return model.Schedule{}, fmt.Errorf("%s-%s: %w", start, end, model.ErrInvalidRange)
	}

	s := model.Schedule{
		ID:          selfID,
		CourseID:    candidate.CourseID,
		ClassroomID: candidate.RoomID(),
		Day:         day,
		StartTime:   start,
		EndTime:     end,
	}

	for _, other := range existing {
		if selfID != 0 && other.ID == selfID {
			continue
		}
		if s.Overlaps(other) {
			return model.Schedule{}, fmt.Errorf("classroom %d on %s %s-%s overlaps schedule %d (%s-%s): %w",
				s.ClassroomID, s.Day, s.StartTime, s.EndTime,
				other.ID, other.StartTime, other.EndTime, model.ErrScheduleConflict)
		}
	}
	return s, nil
}
