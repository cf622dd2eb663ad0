package repository

import "github.com/stemsi/academia-backend/internal/database"

// Repositories bundles the process-wide stores.
type Repositories struct {
	Course        CourseRepository
	Program       ProgramRepository
	Classroom     ClassroomRepository
	Schedule      ScheduleRepository
	User          UserRepository
	CourseProgram CourseProgramRepository
	Locks         *Locks
}

// Locks serializes writes that span several stores for one entity, such as
// a course and its schedules. Take them in the order User, Course,
// Classroom.
type Locks struct {
	User      *database.KeyedMutex
	Course    *database.KeyedMutex
	Classroom *database.KeyedMutex
}

// New builds empty stores sharing one latency setting.
func New(latency database.Latency) *Repositories {
	return &Repositories{
		Course:        NewCourseRepository(latency),
		Program:       NewProgramRepository(latency),
		Classroom:     NewClassroomRepository(latency),
		Schedule:      NewScheduleRepository(latency),
		User:          NewUserRepository(latency),
		CourseProgram: NewCourseProgramRepository(latency),
		Locks: &Locks{
			User:      database.NewKeyedMutex(),
			Course:    database.NewKeyedMutex(),
			Classroom: database.NewKeyedMutex(),
		},
	}
}
