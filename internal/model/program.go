package model

// Program is a study program. Name is unique across programs.
type Program struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (p Program) GetID() int            { return p.ID }
func (p Program) WithID(id int) Program { p.ID = id; return p }
func (p Program) UniqueKey() string     { return p.Name }

// CreateProgramRequest is the payload for creating a program.
type CreateProgramRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=150"`
	Description string `json:"description" binding:"max=1000"`
}

// ProgramPatch holds the fields of a shallow program update.
type ProgramPatch struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=150"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

// Apply merges the non-nil fields of p into prog.
func (p ProgramPatch) Apply(prog Program) Program {
	if p.Name != nil {
		prog.Name = *p.Name
	}
	if p.Description != nil {
		prog.Description = *p.Description
	}
	return prog
}
