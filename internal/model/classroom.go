package model

// Classroom is a room schedules take place in. Name is unique.
type Classroom struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

func (c Classroom) GetID() int              { return c.ID }
func (c Classroom) WithID(id int) Classroom { c.ID = id; return c }
func (c Classroom) UniqueKey() string       { return c.Name }

// CreateClassroomRequest is the payload for creating a classroom.
type CreateClassroomRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Capacity int    `json:"capacity" binding:"required,min=1,max=10000"`
}

// ClassroomPatch holds the fields of a shallow classroom update.
type ClassroomPatch struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	Capacity *int    `json:"capacity" binding:"omitempty,min=1,max=10000"`
}

// Apply merges the non-nil fields of p into c.
func (p ClassroomPatch) Apply(c Classroom) Classroom {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Capacity != nil {
		c.Capacity = *p.Capacity
	}
	return c
}
