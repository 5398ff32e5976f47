package planner

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
)

// fakeStore is an in-memory storage.Provider for exercising the planner
// without a database. Only the operations the planner touches are fully
// modeled; the rest satisfy the interface.
type fakeStore struct {
	availability []models.AvailabilitySlot
	assessments  []models.Assessment
	courses      []models.Course
	settings     models.Settings
	blocks       []models.StudyBlock
	summary      *models.PlanSummary

	replaceCalls int
	upsertCalls  int

	failAvailability bool
	failAssessments  bool
	failCourses      bool
	failSettings     bool
	failReplace      bool
	failUpsert       bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (f *fakeStore) Init() error  { return nil }
func (f *fakeStore) Load() error  { return nil }
func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) GetSettings(userID string) (models.Settings, error) {
	if f.failSettings {
		return models.Settings{}, errors.New("settings read failed")
	}
	settings := f.settings
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

func (f *fakeStore) SaveSettings(userID string, settings models.Settings) error {
	f.settings = settings
	return nil
}

func (f *fakeStore) AddCourse(course models.Course) error {
	f.courses = append(f.courses, course)
	return nil
}

func (f *fakeStore) GetCourse(userID, id string) (models.Course, error) {
	for _, c := range f.courses {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Course{}, fmt.Errorf("course with id %s not found", id)
}

func (f *fakeStore) GetCourses(userID string) ([]models.Course, error) {
	if f.failCourses {
		return nil, errors.New("courses read failed")
	}
	return f.courses, nil
}

func (f *fakeStore) UpdateCourse(course models.Course) error { return nil }
func (f *fakeStore) DeleteCourse(userID, id string) error    { return nil }

func (f *fakeStore) AddAssessment(assessment models.Assessment) error {
	f.assessments = append(f.assessments, assessment)
	return nil
}

func (f *fakeStore) GetAssessment(userID, id string) (models.Assessment, error) {
	for _, a := range f.assessments {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Assessment{}, fmt.Errorf("assessment with id %s not found", id)
}

func (f *fakeStore) GetAssessments(userID string) ([]models.Assessment, error) {
	return f.assessments, nil
}

func (f *fakeStore) GetPendingAssessments(userID, windowStart, windowEnd string) ([]models.Assessment, error) {
	if f.failAssessments {
		return nil, errors.New("assessments read failed")
	}
	var pending []models.Assessment
	for _, a := range f.assessments {
		if a.Status == constants.StatusDone {
			continue
		}
		if a.DueDate < windowStart || a.DueDate > windowEnd {
			continue
		}
		pending = append(pending, a)
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].DueDate != pending[j].DueDate {
			return pending[i].DueDate < pending[j].DueDate
		}
		return pending[i].ID < pending[j].ID
	})
	return pending, nil
}

func (f *fakeStore) UpdateAssessment(assessment models.Assessment) error { return nil }
func (f *fakeStore) DeleteAssessment(userID, id string) error            { return nil }

func (f *fakeStore) GetAvailability(userID string) ([]models.AvailabilitySlot, error) {
	if f.failAvailability {
		return nil, errors.New("availability read failed")
	}
	return f.availability, nil
}

func (f *fakeStore) SetAvailability(userID string, slots []models.AvailabilitySlot) error {
	f.availability = slots
	return nil
}

func (f *fakeStore) ClearAvailability(userID string) error {
	f.availability = nil
	return nil
}

func (f *fakeStore) GetStudyBlocks(userID, startDate, endDate string) ([]models.StudyBlock, error) {
	var out []models.StudyBlock
	for _, b := range f.blocks {
		if b.Date >= startDate && b.Date <= endDate {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertStudyBlocks(userID string, blocks []models.StudyBlock) error {
	f.blocks = append(f.blocks, blocks...)
	return nil
}

func (f *fakeStore) DeleteStudyBlocks(userID string, dates []string) error {
	f.removeBlocks(dates)
	return nil
}

func (f *fakeStore) SetStudyBlockDone(userID, id string, done bool) error { return nil }

func (f *fakeStore) ReplaceStudyBlocks(userID string, dates []string, blocks []models.StudyBlock, summary models.PlanSummary) error {
	f.replaceCalls++
	if f.failReplace {
		return errors.New("replace failed")
	}
	f.removeBlocks(dates)
	f.blocks = append(f.blocks, blocks...)
	f.summary = &summary
	return nil
}

func (f *fakeStore) GetPlanSummary(userID string) (models.PlanSummary, error) {
	if f.summary == nil {
		return models.PlanSummary{}, errors.New("no plan has been generated yet")
	}
	return *f.summary, nil
}

func (f *fakeStore) UpsertPlanSummary(summary models.PlanSummary) error {
	f.upsertCalls++
	if f.failUpsert {
		return errors.New("summary write failed")
	}
	f.summary = &summary
	return nil
}

func (f *fakeStore) GetConfigPath() string { return "fake" }

func (f *fakeStore) removeBlocks(dates []string) {
	inWindow := make(map[string]bool, len(dates))
	for _, d := range dates {
		inWindow[d] = true
	}
	kept := f.blocks[:0]
	for _, b := range f.blocks {
		if !inWindow[b.Date] {
			kept = append(kept, b)
		}
	}
	f.blocks = kept
}

// uniformAvailability returns a full weekly profile with the same hours on
// every weekday.
func uniformAvailability(hours float64) []models.AvailabilitySlot {
	var slots []models.AvailabilitySlot
	for d := time.Sunday; d <= time.Saturday; d++ {
		slots = append(slots, models.AvailabilitySlot{Weekday: d, Hours: hours})
	}
	return slots
}

func addDays(t *testing.T, date string, n int) string {
	t.Helper()
	parsed, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		t.Fatalf("bad test date %q: %v", date, err)
	}
	return parsed.AddDate(0, 0, n).Format(constants.DateFormat)
}

func minutesByAssessment(blocks []models.StudyBlock) map[string]int {
	out := map[string]int{}
	for _, b := range blocks {
		out[b.AssessmentID] += b.DurationMin
	}
	return out
}

func minutesByDate(blocks []models.StudyBlock) map[string]int {
	out := map[string]int{}
	for _, b := range blocks {
		out[b.Date] += b.DurationMin
	}
	return out
}

const testToday = "2025-12-31" // Wednesday

func TestGenerate_SpreadsWorkUpToDueDate(t *testing.T) {
	// 2h available every day, one 4h assessment due in 3 days.
	store := newFakeStore()
	store.availability = uniformAvailability(2)
	store.courses = []models.Course{{ID: "c1", UserID: "u1", Title: "Algorithms", Difficulty: 3}}
	store.assessments = []models.Assessment{{
		ID: "a1", UserID: "u1", CourseID: "c1", Title: "Problem Set 4",
		DueDate: addDays(t, testToday, 3), EstimatedHours: 4, Status: constants.StatusTodo,
	}}

	result, err := New(store).Generate("u1", testToday)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if result.ShortfallMinutes != 0 {
		t.Errorf("Expected zero shortfall, got %d", result.ShortfallMinutes)
	}

	total := 0
	due := addDays(t, testToday, 3)
	for _, b := range result.Blocks {
		total += b.DurationMin
		if b.Date > due {
			t.Errorf("Block scheduled on %s, after the due date %s", b.Date, due)
		}
		if b.DurationMin <= 0 || b.DurationMin > constants.MaxChunkMin {
			t.Errorf("Block duration %d outside the allowed chunk range", b.DurationMin)
		}
		if b.Title != "Algorithms — Problem Set 4" {
			t.Errorf("Unexpected block title %q", b.Title)
		}
	}
	if total != 240 {
		t.Errorf("Expected 240 minutes allocated, got %d", total)
	}

	// Daily capacity is 120 minutes
	for date, minutes := range minutesByDate(result.Blocks) {
		if minutes > 120 {
			t.Errorf("Date %s got %d minutes, over the 120 minute capacity", date, minutes)
		}
	}
}

func TestGenerate_ZeroCapacityReportsFullShortfall(t *testing.T) {
	// No capacity at all: everything lands in shortfall.
	store := newFakeStore()
	store.availability = uniformAvailability(0)
	store.assessments = []models.Assessment{{
		ID: "a1", UserID: "u1", Title: "Essay Draft",
		DueDate: addDays(t, testToday, 2), EstimatedHours: 2, Status: constants.StatusTodo,
	}}

	result, err := New(store).Generate("u1", testToday)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(result.Blocks) != 0 {
		t.Errorf("Expected no blocks, got %d", len(result.Blocks))
	}
	if result.ShortfallMinutes != 120 {
		t.Errorf("Expected shortfall of 120 minutes, got %d", result.ShortfallMinutes)
	}
	if result.Warning == "" {
		t.Error("Expected a shortfall warning, got none")
	}
	if !strings.Contains(result.Warning, "2h") {
		t.Errorf("Expected warning to report the 2h shortfall, got %q", result.Warning)
	}
	if store.summary == nil {
		t.Fatal("Expected a plan summary to be written")
	}
	if store.summary.ShortfallMinutes != 120 {
		t.Errorf("Expected persisted shortfall 120, got %d", store.summary.ShortfallMinutes)
	}
}

func TestGenerate_HigherScoreWinsScarceCapacity(t *testing.T) {
	// Two assessments compete for a single hour of capacity the day they
	// are both due. The harder one must win.
	due := addDays(t, testToday, 1)
	store := newFakeStore()
	store.availability = []models.AvailabilitySlot{
		{Weekday: time.Wednesday, Hours: 0},
		{Weekday: time.Thursday, Hours: 1},
		{Weekday: time.Friday, Hours: 0},
		{Weekday: time.Saturday, Hours: 0},
		{Weekday: time.Sunday, Hours: 0},
		{Weekday: time.Monday, Hours: 0},
		{Weekday: time.Tuesday, Hours: 0},
	}
	store.courses = []models.Course{
		{ID: "hard", UserID: "u1", Title: "Real Analysis", Difficulty: 5},
		{ID: "easy", UserID: "u1", Title: "Film Studies", Difficulty: 1},
	}
	store.assessments = []models.Assessment{
		{ID: "a-easy", UserID: "u1", CourseID: "easy", Title: "Reflection", DueDate: due, EstimatedHours: 1, Status: constants.StatusTodo},
		{ID: "a-hard", UserID: "u1", CourseID: "hard", Title: "Midterm", DueDate: due, EstimatedHours: 1, Status: constants.StatusTodo},
	}

	result, err := New(store).Generate("u1", testToday)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	allocated := minutesByAssessment(result.Blocks)
	if allocated["a-hard"] != 60 {
		t.Errorf("Expected the difficulty-5 assessment to get all 60 minutes, got %d", allocated["a-hard"])
	}
	if allocated["a-easy"] != 0 {
		t.Errorf("Expected the difficulty-1 assessment to get nothing, got %d", allocated["a-easy"])
	}
	if result.ShortfallMinutes != 60 {
		t.Errorf("Expected 60 minutes of shortfall, got %d", result.ShortfallMinutes)
	}
}

func TestGenerate_NoAssessmentsDue(t *testing.T) {
	store := newFakeStore()
	store.availability = uniformAvailability(2)
	// One assessment far outside the window, one already done inside it.
	store.assessments = []models.Assessment{
		{ID: "far", UserID: "u1", Title: "Final Exam", DueDate: addDays(t, testToday, 30), EstimatedHours: 10, Status: constants.StatusTodo},
		{ID: "done", UserID: "u1", Title: "Quiz", DueDate: addDays(t, testToday, 2), EstimatedHours: 1, Status: constants.StatusDone},
	}
	// A leftover block from an older plan must survive the short-circuit.
	store.blocks = []models.StudyBlock{{ID: "old", UserID: "u1", Date: testToday, Title: "Old", DurationMin: 30, AssessmentID: "done", Seq: 0}}

	result, err := New(store).Generate("u1", testToday)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(result.Blocks) != 0 {
		t.Errorf("Expected no blocks, got %d", len(result.Blocks))
	}
	if result.ShortfallMinutes != 0 {
		t.Errorf("Expected zero shortfall, got %d", result.ShortfallMinutes)
	}
	if result.Message == "" {
		t.Error("Expected an informational message")
	}
	if result.Warning != "" {
		t.Errorf("Expected no warning, got %q", result.Warning)
	}
	if store.replaceCalls != 0 {
		t.Errorf("Expected no window replacement, got %d calls", store.replaceCalls)
	}
	if store.upsertCalls != 1 {
		t.Errorf("Expected exactly one summary upsert, got %d", store.upsertCalls)
	}
	if len(store.blocks) != 1 {
		t.Errorf("Expected the stale block to be left alone, found %d blocks", len(store.blocks))
	}
	if store.summary == nil || store.summary.ShortfallMinutes != 0 {
		t.Error("Expected a zero-shortfall summary to be written")
	}
}

func TestGenerate_IsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.availability = uniformAvailability(1.5)
	store.courses = []models.Course{
		{ID: "c1", UserID: "u1", Title: "Chemistry", Difficulty: 4},
		{ID: "c2", UserID: "u1", Title: "History", Difficulty: 2},
	}
	store.assessments = []models.Assessment{
		{ID: "a1", UserID: "u1", CourseID: "c1", Title: "Lab Report", DueDate: addDays(t, testToday, 2), EstimatedHours: 3, Status: constants.StatusTodo},
		{ID: "a2", UserID: "u1", CourseID: "c2", Title: "Essay", DueDate: addDays(t, testToday, 5), EstimatedHours: 4, Status: constants.StatusInProgress},
	}

	planner := New(store)
	first, err := planner.Generate("u1", testToday)
	if err != nil {
		t.Fatalf("First Generate failed: %v", err)
	}
	second, err := planner.Generate("u1", testToday)
	if err != nil {
		t.Fatalf("Second Generate failed: %v", err)
	}

	if first.ShortfallMinutes != second.ShortfallMinutes {
		t.Errorf("Shortfall changed between runs: %d then %d", first.ShortfallMinutes, second.ShortfallMinutes)
	}
	if len(first.Blocks) != len(second.Blocks) {
		t.Fatalf("Block count changed between runs: %d then %d", len(first.Blocks), len(second.Blocks))
	}
	for i := range first.Blocks {
		a, b := first.Blocks[i], second.Blocks[i]
		if a.Date != b.Date || a.Title != b.Title || a.DurationMin != b.DurationMin || a.Seq != b.Seq {
			t.Errorf("Block %d differs between runs: %+v vs %+v", i, a, b)
		}
	}
	if len(store.blocks) != len(second.Blocks) {
		t.Errorf("Store holds %d blocks after two runs, expected %d", len(store.blocks), len(second.Blocks))
	}
}

func TestGenerate_ConservationOfWork(t *testing.T) {
	store := newFakeStore()
	store.availability = uniformAvailability(1)
	store.courses = []models.Course{{ID: "c1", UserID: "u1", Title: "Physics", Difficulty: 5}}
	store.assessments = []models.Assessment{
		{ID: "a1", UserID: "u1", CourseID: "c1", Title: "Problem Set", DueDate: addDays(t, testToday, 1), EstimatedHours: 2.5, Status: constants.StatusTodo},
		{ID: "a2", UserID: "u1", Title: "Reading Response", DueDate: addDays(t, testToday, 4), EstimatedHours: 3.25, Status: constants.StatusTodo},
		{ID: "a3", UserID: "u1", Title: "Presentation", DueDate: addDays(t, testToday, 6), EstimatedHours: 4, Status: constants.StatusTodo},
	}

	result, err := New(store).Generate("u1", testToday)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	allocated := minutesByAssessment(result.Blocks)
	estimates := map[string]int{"a1": 150, "a2": 195, "a3": 240}

	totalUnallocated := 0
	for id, estimate := range estimates {
		if allocated[id] > estimate {
			t.Errorf("Assessment %s got %d minutes, more than its %d minute estimate", id, allocated[id], estimate)
		}
		totalUnallocated += estimate - allocated[id]
	}
	if totalUnallocated != result.ShortfallMinutes {
		t.Errorf("Unallocated work %d does not match reported shortfall %d", totalUnallocated, result.ShortfallMinutes)
	}
}

func TestGenerate_NeverSchedulesPastDueDate(t *testing.T) {
	// Far more work than fits before the due date; the overflow must land
	// in shortfall, never on later days.
	store := newFakeStore()
	store.availability = uniformAvailability(1)
	store.assessments = []models.Assessment{{
		ID: "a1", UserID: "u1", Title: "Capstone Outline",
		DueDate: addDays(t, testToday, 2), EstimatedHours: 10, Status: constants.StatusTodo,
	}}

	result, err := New(store).Generate("u1", testToday)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	due := addDays(t, testToday, 2)
	total := 0
	for _, b := range result.Blocks {
		if b.Date > due {
			t.Errorf("Block on %s is past the due date %s", b.Date, due)
		}
		total += b.DurationMin
	}
	// 3 days of 60 minutes each before the due date
	if total != 180 {
		t.Errorf("Expected 180 minutes allocated, got %d", total)
	}
	if result.ShortfallMinutes != 600-180 {
		t.Errorf("Expected 420 minutes of shortfall, got %d", result.ShortfallMinutes)
	}
}

func TestGenerate_ChunkSizeFollowsSettings(t *testing.T) {
	store := newFakeStore()
	store.availability = uniformAvailability(2)
	store.settings = models.Settings{ChunkMin: 45, Timezone: "Local"}
	store.assessments = []models.Assessment{{
		ID: "a1", UserID: "u1", Title: "Worksheet",
		DueDate: addDays(t, testToday, 6), EstimatedHours: 2, Status: constants.StatusTodo,
	}}

	result, err := New(store).Generate("u1", testToday)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// 120 minutes of work in 45 minute chunks: 45 + 45 + 30
	if len(result.Blocks) != 3 {
		t.Fatalf("Expected 3 blocks, got %d", len(result.Blocks))
	}
	if result.Blocks[0].DurationMin != 45 || result.Blocks[1].DurationMin != 45 || result.Blocks[2].DurationMin != 30 {
		t.Errorf("Expected chunks 45/45/30, got %d/%d/%d",
			result.Blocks[0].DurationMin, result.Blocks[1].DurationMin, result.Blocks[2].DurationMin)
	}
}

func TestGenerate_ChunkSizeClamped(t *testing.T) {
	cases := []struct {
		name     string
		chunkMin int
		want     int
	}{
		{"below minimum", 5, constants.MinChunkMin},
		{"above maximum", 240, constants.MaxChunkMin},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			store.availability = uniformAvailability(8)
			store.settings = models.Settings{ChunkMin: tc.chunkMin, Timezone: "Local"}
			store.assessments = []models.Assessment{{
				ID: "a1", UserID: "u1", Title: "Worksheet",
				DueDate: addDays(t, testToday, 6), EstimatedHours: float64(tc.want) / 60, Status: constants.StatusTodo,
			}}

			result, err := New(store).Generate("u1", testToday)
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			if len(result.Blocks) != 1 {
				t.Fatalf("Expected a single block, got %d", len(result.Blocks))
			}
			if result.Blocks[0].DurationMin != tc.want {
				t.Errorf("Expected chunk of %d minutes, got %d", tc.want, result.Blocks[0].DurationMin)
			}
		})
	}
}

func TestGenerate_DefaultsForMissingAvailabilityAndCourse(t *testing.T) {
	// No availability profile at all: every day falls back to 2h. The
	// assessment references a course that no longer exists, so it keeps
	// its bare title and the default difficulty.
	store := newFakeStore()
	store.assessments = []models.Assessment{{
		ID: "a1", UserID: "u1", CourseID: "ghost", Title: "Take-home Quiz",
		DueDate: addDays(t, testToday, 6), EstimatedHours: 5, Status: constants.StatusTodo,
	}}

	result, err := New(store).Generate("u1", testToday)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if result.ShortfallMinutes != 0 {
		t.Errorf("Expected no shortfall with 840 weekly minutes, got %d", result.ShortfallMinutes)
	}
	for _, b := range result.Blocks {
		if b.Title != "Take-home Quiz" {
			t.Errorf("Expected bare assessment title, got %q", b.Title)
		}
	}
	for date, minutes := range minutesByDate(result.Blocks) {
		if minutes > 120 {
			t.Errorf("Date %s exceeds the default 120 minute capacity with %d minutes", date, minutes)
		}
	}
}

func TestGenerate_WeekdayLookupUsesCalendarDates(t *testing.T) {
	// Capacity only on Mondays. Starting Wednesday 2025-12-31, the only
	// Monday in the window is 2026-01-05.
	store := newFakeStore()
	slots := uniformAvailability(0)
	for i := range slots {
		if slots[i].Weekday == time.Monday {
			slots[i].Hours = 2
		}
	}
	store.availability = slots
	store.assessments = []models.Assessment{{
		ID: "a1", UserID: "u1", Title: "Weekly Review",
		DueDate: addDays(t, testToday, 6), EstimatedHours: 1, Status: constants.StatusTodo,
	}}

	result, err := New(store).Generate("u1", testToday)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(result.Blocks) == 0 {
		t.Fatal("Expected blocks on the Monday in the window")
	}
	for _, b := range result.Blocks {
		if b.Date != "2026-01-05" {
			t.Errorf("Expected all blocks on 2026-01-05, got one on %s", b.Date)
		}
	}
}

func TestGenerate_StableOrderOnEqualScores(t *testing.T) {
	// Same course difficulty, same due date: the storage order (due date,
	// then id) must decide who goes first, consistently.
	due := addDays(t, testToday, 3)
	store := newFakeStore()
	store.availability = uniformAvailability(0.5)
	store.courses = []models.Course{{ID: "c1", UserID: "u1", Title: "Statistics", Difficulty: 3}}
	store.assessments = []models.Assessment{
		{ID: "a-first", UserID: "u1", CourseID: "c1", Title: "Homework 1", DueDate: due, EstimatedHours: 1, Status: constants.StatusTodo},
		{ID: "a-second", UserID: "u1", CourseID: "c1", Title: "Homework 2", DueDate: due, EstimatedHours: 1, Status: constants.StatusTodo},
	}

	result, err := New(store).Generate("u1", testToday)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(result.Blocks) == 0 {
		t.Fatal("Expected at least one block")
	}
	if result.Blocks[0].AssessmentID != "a-first" {
		t.Errorf("Expected a-first to be allocated first on ties, got %s", result.Blocks[0].AssessmentID)
	}
}

func TestGenerate_ReplaceClearsStaleBlocks(t *testing.T) {
	// A qualifying assessment with zero capacity still replaces the
	// window, clearing blocks left over from an earlier run.
	store := newFakeStore()
	store.availability = uniformAvailability(0)
	store.assessments = []models.Assessment{{
		ID: "a1", UserID: "u1", Title: "Essay",
		DueDate: addDays(t, testToday, 3), EstimatedHours: 1, Status: constants.StatusTodo,
	}}
	store.blocks = []models.StudyBlock{{ID: "stale", UserID: "u1", Date: addDays(t, testToday, 1), Title: "Stale", DurationMin: 30, AssessmentID: "gone", Seq: 0}}

	result, err := New(store).Generate("u1", testToday)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(result.Blocks) != 0 {
		t.Errorf("Expected no new blocks, got %d", len(result.Blocks))
	}
	if store.replaceCalls != 1 {
		t.Errorf("Expected one window replacement, got %d", store.replaceCalls)
	}
	if len(store.blocks) != 0 {
		t.Errorf("Expected stale blocks to be cleared, found %d", len(store.blocks))
	}
}

func TestGenerate_StorageFailuresPropagate(t *testing.T) {
	cases := []struct {
		name  string
		setup func(*fakeStore)
	}{
		{"availability read", func(f *fakeStore) { f.failAvailability = true }},
		{"assessments read", func(f *fakeStore) { f.failAssessments = true }},
		{"courses read", func(f *fakeStore) { f.failCourses = true }},
		{"settings read", func(f *fakeStore) { f.failSettings = true }},
		{"window replace", func(f *fakeStore) { f.failReplace = true }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			store.availability = uniformAvailability(2)
			store.assessments = []models.Assessment{{
				ID: "a1", UserID: "u1", Title: "Essay",
				DueDate: addDays(t, testToday, 3), EstimatedHours: 1, Status: constants.StatusTodo,
			}}
			tc.setup(store)

			_, err := New(store).Generate("u1", testToday)
			if err == nil {
				t.Fatal("Expected an error, got nil")
			}
			if store.summary != nil {
				t.Error("Expected no summary to be written after a failure")
			}
		})
	}
}

func TestGenerate_SummaryFailureOnShortCircuit(t *testing.T) {
	store := newFakeStore()
	store.failUpsert = true

	_, err := New(store).Generate("u1", testToday)
	if err == nil {
		t.Fatal("Expected an error when the summary write fails, got nil")
	}
}

func TestGenerate_RejectsInvalidReferenceDate(t *testing.T) {
	store := newFakeStore()
	if _, err := New(store).Generate("u1", "31-12-2025"); err == nil {
		t.Error("Expected error for invalid date, got nil")
	}
	if _, err := New(store).Generate("u1", ""); err == nil {
		t.Error("Expected error for empty date, got nil")
	}
}

func TestGenerate_InProgressCountsDoneDoesNot(t *testing.T) {
	due := addDays(t, testToday, 2)
	store := newFakeStore()
	store.availability = uniformAvailability(2)
	store.assessments = []models.Assessment{
		{ID: "wip", UserID: "u1", Title: "Draft", DueDate: due, EstimatedHours: 1, Status: constants.StatusInProgress},
		{ID: "finished", UserID: "u1", Title: "Done Quiz", DueDate: due, EstimatedHours: 1, Status: constants.StatusDone},
	}

	result, err := New(store).Generate("u1", testToday)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	allocated := minutesByAssessment(result.Blocks)
	if allocated["wip"] != 60 {
		t.Errorf("Expected the in-progress assessment to be scheduled, got %d minutes", allocated["wip"])
	}
	if allocated["finished"] != 0 {
		t.Errorf("Expected the done assessment to be ignored, got %d minutes", allocated["finished"])
	}
}
