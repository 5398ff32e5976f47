package sqlite

import (
	"errors"
	"testing"

	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/storage"
)

func TestCourseCRUD(t *testing.T) {
	store := setupTestStore(t)

	course := models.Course{
		ID:         "course-1",
		UserID:     testUser,
		Title:      "Linear Algebra",
		Difficulty: 4,
	}

	t.Run("Add", func(t *testing.T) {
		if err := store.AddCourse(course); err != nil {
			t.Fatalf("failed to add course: %v", err)
		}
	})

	t.Run("Get", func(t *testing.T) {
		got, err := store.GetCourse(testUser, "course-1")
		if err != nil {
			t.Fatalf("failed to get course: %v", err)
		}
		if got.Title != "Linear Algebra" {
			t.Errorf("expected title 'Linear Algebra', got %q", got.Title)
		}
		if got.Difficulty != 4 {
			t.Errorf("expected difficulty 4, got %d", got.Difficulty)
		}
	})

	t.Run("Update", func(t *testing.T) {
		course.Difficulty = 5
		if err := store.UpdateCourse(course); err != nil {
			t.Fatalf("failed to update course: %v", err)
		}
		got, err := store.GetCourse(testUser, "course-1")
		if err != nil {
			t.Fatalf("failed to get course after update: %v", err)
		}
		if got.Difficulty != 5 {
			t.Errorf("expected difficulty 5 after update, got %d", got.Difficulty)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.DeleteCourse(testUser, "course-1"); err != nil {
			t.Fatalf("failed to delete course: %v", err)
		}
		if _, err := store.GetCourse(testUser, "course-1"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestGetCoursesOrderedByTitle(t *testing.T) {
	store := setupTestStore(t)

	courses := []models.Course{
		{ID: "c1", UserID: testUser, Title: "Zoology", Difficulty: 2},
		{ID: "c2", UserID: testUser, Title: "Algorithms", Difficulty: 5},
		{ID: "c3", UserID: testUser, Title: "Microeconomics", Difficulty: 3},
	}
	for _, c := range courses {
		if err := store.AddCourse(c); err != nil {
			t.Fatalf("failed to add course %s: %v", c.ID, err)
		}
	}

	got, err := store.GetCourses(testUser)
	if err != nil {
		t.Fatalf("failed to get courses: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 courses, got %d", len(got))
	}

	wantOrder := []string{"Algorithms", "Microeconomics", "Zoology"}
	for i, want := range wantOrder {
		if got[i].Title != want {
			t.Errorf("course %d: expected title %q, got %q", i, want, got[i].Title)
		}
	}
}

func TestCourseUserIsolation(t *testing.T) {
	store := setupTestStore(t)

	course := models.Course{ID: "c1", UserID: "alice", Title: "Chemistry", Difficulty: 3}
	if err := store.AddCourse(course); err != nil {
		t.Fatalf("failed to add course: %v", err)
	}

	if _, err := store.GetCourse("bob", "c1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for another user's course, got %v", err)
	}

	got, err := store.GetCourses("bob")
	if err != nil {
		t.Fatalf("failed to get courses: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no courses for other user, got %d", len(got))
	}
}

func TestUpdateMissingCourse(t *testing.T) {
	store := setupTestStore(t)

	course := models.Course{ID: "ghost", UserID: testUser, Title: "Phantom Studies", Difficulty: 1}
	if err := store.UpdateCourse(course); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound updating a missing course, got %v", err)
	}
}

func TestDeleteMissingCourse(t *testing.T) {
	store := setupTestStore(t)

	if err := store.DeleteCourse(testUser, "ghost"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting a missing course, got %v", err)
	}
}
