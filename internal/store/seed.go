package store

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/campusgate/gatepass-api/internal/models"
	"github.com/campusgate/gatepass-api/pkg/qrtoken"
)

// Demo data matching the legacy front end: four CSE teachers, six passes
// covering every lifecycle state, and one login per role.

func seedTeachers() []models.Teacher {
	return []models.Teacher{
		{ID: "T001", Name: "Prof Jayshri Harde", Email: "jayshri@example.com", Department: "CSE", IsPresent: true},
		{ID: "T002", Name: "Prof Ashish Dandekar", Email: "ashish@example.com", Department: "CSE", IsPresent: true},
		{ID: "T003", Name: "Prof Kalyani Satone", Email: "kalyani@example.com", Department: "CSE", IsPresent: true},
		{ID: "T004", Name: "Prof Brown", Email: "brown@example.com", Department: "CSE", IsPresent: true},
	}
}

func seedPasses() []models.Pass {
	now := time.Now().UTC()
	day := 24 * time.Hour
	date := func(t time.Time) string { return t.Format("2006-01-02") }

	return []models.Pass{
		{
			ID: 1, StudentID: "STU001", StudentName: "John Student",
			TeacherID: "T001", TeacherName: "Prof Jayshri Harde",
			Reason: "Library Access", Date: date(now),
			Status: models.PassStatusPending, CreatedAt: now,
		},
		{
			ID: 2, StudentID: "STU002", StudentName: "Gauri Student",
			TeacherID: "T002", TeacherName: "Prof Ashish Dandekar",
			Reason: "Lab Work", Date: date(now),
			Status: models.PassStatusPending, CreatedAt: now,
		},
		{
			ID: 3, StudentID: "STU001", StudentName: "John Student",
			TeacherID: "T001", TeacherName: "Prof Jayshri Harde",
			Reason: "Previous Lab Session", Date: date(now.Add(-day)),
			Status: models.PassStatusApproved, QRCode: qrtoken.PassCode(3, now.Add(-day)),
			QRVerified: true, FacialVerified: true, CanExit: true,
			CreatedAt: now.Add(-day),
		},
		{
			ID: 4, StudentID: "STU003", StudentName: "Rajesh Kumar",
			TeacherID: "T003", TeacherName: "Prof Kalyani Satone",
			Reason: "Project Discussion", Date: date(now),
			Status: models.PassStatusApproved, QRCode: qrtoken.PassCode(4, now),
			CreatedAt: now,
		},
		{
			ID: 5, StudentID: "STU004", StudentName: "Priya Sharma",
			TeacherID: "T002", TeacherName: "Prof Ashish Dandekar",
			Reason: "Internship Meeting", Date: date(now.Add(-2 * day)),
			Status: models.PassStatusApproved, QRCode: qrtoken.PassCode(5, now.Add(-2*day)),
			QRVerified: true, FacialVerified: true, CanExit: true,
			CreatedAt: now.Add(-2 * day),
		},
		{
			ID: 6, StudentID: "STU005", StudentName: "Amit Patel",
			TeacherID: "T001", TeacherName: "Prof Jayshri Harde",
			Reason: "Interview Preparation", Date: date(now.Add(-3 * day)),
			Status: models.PassStatusRejected, CreatedAt: now.Add(-3 * day),
		},
	}
}

func seedCredentials() []models.Credential {
	hash := func(password string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			// Seeding runs before the server accepts traffic; a bcrypt
			// failure here means a broken build, not bad input.
			panic(err)
		}
		return string(h)
	}
	demo := hash("password")

	return []models.Credential{
		{Role: models.RoleStudent, UserID: "student@example.com", Name: "John Student", PasswordHash: demo},
		{Role: models.RoleStudent, UserID: "gauri@gmail.com", Name: "Gauri Student", PasswordHash: demo},
		{Role: models.RoleFaculty, UserID: "faculty@example.com", Name: "Dr. Faculty", PasswordHash: demo},
		{Role: models.RoleSecurity, UserID: "security@example.com", Name: "Security Guard", PasswordHash: demo},
		{Role: models.RoleAdmin, UserID: "hod@example.com", Name: "Prof. HOD", PasswordHash: demo},
	}
}
