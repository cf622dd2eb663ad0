package repository

import (
	"context"
	"fmt"

	"github.com/stemsi/academia-backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "123"

var demoUsers = []model.User{
	{Roles: []string{model.RoleStudent}, FirstName: "Jack", LastName: "Doe", Email: "jack.doe@student.com"},
	{Roles: []string{model.RoleProfessor}, FirstName: "Fabian", LastName: "Smith", Email: "fabian.smith@university.com"},
	{Roles: []string{model.RoleAdministrative}, FirstName: "Jane", LastName: "Johnson", Email: "jane.johnson@university.com"},
}

var demoPrograms = []model.Program{
	{Name: "Software Engineering", Description: "Learn the principles of software design, development, and testing."},
	{Name: "Data Science", Description: "Explore data analysis, machine learning, and visualization techniques."},
	{Name: "Cybersecurity", Description: "Understand security measures, threat analysis, and ethical hacking."},
	{Name: "Artificial Intelligence", Description: "Study the fundamentals of AI and develop intelligent systems."},
	{Name: "Web Development", Description: "Build modern, responsive web applications using popular frameworks."},
}

var demoClassrooms = []model.Classroom{
	{Name: "Science Lab", Capacity: 30},
	{Name: "Math Room", Capacity: 25},
	{Name: "History Room", Capacity: 20},
	{Name: "Computer Lab", Capacity: 35},
	{Name: "Art Studio", Capacity: 15},
	{Name: "Physics Lab", Capacity: 40},
	{Name: "Chemistry Lab", Capacity: 32},
	{Name: "Music Room", Capacity: 20},
	{Name: "English Room", Capacity: 28},
	{Name: "Drama Studio", Capacity: 25},
}

// Owner and program references are 1-based positions in the lists above.
var demoCourses = []struct {
	name     string
	owner    int
	programs []int
}{
	{"Introduction to Computer Science", 1, []int{1, 2}},
	{"Advanced Data Structures", 2, []int{2}},
	{"Web Development", 3, []int{3}},
	{"Machine Learning", 1, []int{4}},
	{"Database Systems", 2, []int{5}},
	{"Cloud Computing", 3, []int{1}},
	{"Operating Systems", 1, []int{2}},
	{"Artificial Intelligence", 2, []int{3}},
	{"Software Engineering", 3, []int{4}},
	{"Computer Networks", 1, []int{5}},
}

var demoSchedules = []struct {
	course, classroom int
	day               model.Weekday
	start, end        string
}{
	{1, 1, model.Monday, "09:00", "10:30"},
	{1, 2, model.Wednesday, "09:00", "10:30"},
	{2, 3, model.Tuesday, "14:00", "15:30"},
	{3, 5, model.Friday, "10:00", "12:00"},
}

// Seed fills empty stores with the demo data set. Passwords are hashed
// with the given bcrypt cost.
func Seed(ctx context.Context, repos *Repositories, bcryptCost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	userIDs := make([]int, 0, len(demoUsers))
	for _, u := range demoUsers {
		u.PasswordHash = string(hash)
		created, err := repos.User.Create(ctx, u)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		userIDs = append(userIDs, created.ID)
	}

	programIDs := make([]int, 0, len(demoPrograms))
	for _, p := range demoPrograms {
		created, err := repos.Program.Create(ctx, p)
		if err != nil {
			return fmt.Errorf("seed program %s: %w", p.Name, err)
		}
		programIDs = append(programIDs, created.ID)
	}

	classroomIDs := make([]int, 0, len(demoClassrooms))
	for _, c := range demoClassrooms {
		created, err := repos.Classroom.Create(ctx, c)
		if err != nil {
			return fmt.Errorf("seed classroom %s: %w", c.Name, err)
		}
		classroomIDs = append(classroomIDs, created.ID)
	}

	courseIDs := make([]int, 0, len(demoCourses))
	for _, dc := range demoCourses {
		course, err := repos.Course.Create(ctx, model.Course{Name: dc.name, OwnerUserID: userIDs[dc.owner-1]})
		if err != nil {
			return fmt.Errorf("seed course %s: %w", dc.name, err)
		}
		courseIDs = append(courseIDs, course.ID)
		for _, p := range dc.programs {
			if err := repos.CourseProgram.Add(ctx, course.ID, programIDs[p-1]); err != nil {
				return fmt.Errorf("seed course %s program %d: %w", dc.name, p, err)
			}
		}
	}

	for _, ds := range demoSchedules {
		s := model.Schedule{
			CourseID:    courseIDs[ds.course-1],
			ClassroomID: classroomIDs[ds.classroom-1],
			Day:         ds.day,
			StartTime:   model.MustTime(ds.start),
			EndTime:     model.MustTime(ds.end),
		}
		_, err := repos.Schedule.CreateChecked(ctx, func(others []model.Schedule) (model.Schedule, error) {
			for _, o := range others {
				if s.Overlaps(o) {
					return model.Schedule{}, model.ErrScheduleConflict
				}
			}
			return s, nil
		})
		if err != nil {
			return fmt.Errorf("seed schedule for course %d: %w", ds.course, err)
		}
	}

	return nil
}
