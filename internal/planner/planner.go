package planner

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/logger"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/storage"
	"github.com/julianstephens/studylit/internal/utils"
)

// Planner generates the 7-day study schedule for a user. Generation runs for
// the same user are serialized; different users can generate concurrently.
type Planner struct {
	store storage.Provider

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(store storage.Provider) *Planner {
	return &Planner{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

// Result is the outcome of one generation run. Warning is empty when there
// is nothing to report.
type Result struct {
	Blocks           []models.StudyBlock
	BlocksCreated    int
	ShortfallMinutes int
	Message          string
	Warning          string
}

// Generate computes and persists the study plan for the 7 calendar days
// starting at today (inclusive). The previous plan for the same window is
// replaced wholesale; running twice with unchanged inputs yields the same
// blocks and shortfall.
func (p *Planner) Generate(userID, today string) (Result, error) {
	start, err := time.Parse(constants.DateFormat, today)
	if err != nil {
		return Result{}, fmt.Errorf("invalid reference date %q: expected YYYY-MM-DD", today)
	}

	lock := p.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	// Step 1: build the 7 target dates
	dates := make([]string, constants.PlanWindowDays)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i).Format(constants.DateFormat)
	}
	windowStart, windowEnd := dates[0], dates[len(dates)-1]

	availability, err := p.store.GetAvailability(userID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read availability: %w", err)
	}
	assessments, err := p.store.GetPendingAssessments(userID, windowStart, windowEnd)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read assessments: %w", err)
	}
	courses, err := p.store.GetCourses(userID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read courses: %w", err)
	}
	settings, err := p.store.GetSettings(userID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read settings: %w", err)
	}

	generatedAt := time.Now().UTC().Format(time.RFC3339)

	// Step 2: nothing due in the window, record a clean summary and stop.
	// Existing blocks are left untouched.
	if len(assessments) == 0 {
		summary := models.PlanSummary{UserID: userID, ShortfallMinutes: 0, GeneratedAt: generatedAt}
		if err := p.store.UpsertPlanSummary(summary); err != nil {
			return Result{}, fmt.Errorf("failed to save plan summary: %w", err)
		}
		return Result{
			Message: "No assessments due in the next 7 days, nothing to schedule.",
		}, nil
	}

	blocks, shortfall, totalCapacity := buildSchedule(userID, start, dates, availability, assessments, courses, settings.ChunkMin)

	// Steps 4 and 7: replace the window and record the summary atomically.
	// With zero blocks this still clears any stale plan for these dates.
	summary := models.PlanSummary{UserID: userID, ShortfallMinutes: shortfall, GeneratedAt: generatedAt}
	if err := p.store.ReplaceStudyBlocks(userID, dates, blocks, summary); err != nil {
		return Result{}, fmt.Errorf("failed to replace study blocks: %w", err)
	}

	logger.Debug("generated plan", "user", userID, "window_start", windowStart, "blocks", len(blocks), "shortfall_min", shortfall)

	result := Result{
		Blocks:           blocks,
		BlocksCreated:    len(blocks),
		ShortfallMinutes: shortfall,
	}
	switch {
	case len(blocks) == 0:
		result.Message = "No study blocks could be scheduled in the next 7 days."
	default:
		result.Message = fmt.Sprintf("Scheduled %d study blocks across the next 7 days.", len(blocks))
	}
	switch {
	case shortfall > 0:
		result.Warning = fmt.Sprintf("%s of estimated work could not be scheduled in the next 7 days.", utils.FormatMinutes(shortfall))
	case len(blocks) > 0 && totalCapacity == 0:
		result.Warning = "Blocks were scheduled but the weekly availability capacity is zero."
	}

	return result, nil
}

// candidate is the per-run working copy of an assessment. The stored record
// is never mutated; remaining is decremented as chunks are allocated.
type candidate struct {
	id        string
	title     string
	dueDate   string
	score     float64
	remaining int
}

// buildSchedule runs the greedy allocation over the window and returns the
// blocks, the unallocated shortfall in minutes, and the window's total
// capacity in minutes.
func buildSchedule(userID string, start time.Time, dates []string, availability []models.AvailabilitySlot, assessments []models.Assessment, courses []models.Course, chunkMin int) ([]models.StudyBlock, int, int) {
	// Weekday capacity profile; weekdays without an entry default to
	// DefaultDailyHours, an explicit zero-hour entry stays zero.
	hoursByWeekday := make(map[time.Weekday]float64, len(availability))
	for _, slot := range availability {
		hoursByWeekday[slot.Weekday] = slot.Hours
	}

	courseByID := make(map[string]models.Course, len(courses))
	for _, c := range courses {
		courseByID[c.ID] = c
	}

	nominal := clampChunk(chunkMin)

	// Step 3: score each assessment once against the reference date.
	candidates := make([]*candidate, 0, len(assessments))
	for _, a := range assessments {
		difficulty := constants.DefaultDifficulty
		title := a.Title
		if a.CourseID != "" {
			if course, ok := courseByID[a.CourseID]; ok {
				difficulty = course.Difficulty
				title = fmt.Sprintf("%s — %s", course.Title, a.Title)
			}
		}

		daysLeft := 0
		if due, err := time.Parse(constants.DateFormat, a.DueDate); err == nil {
			daysLeft = int(due.Sub(start).Hours() / 24)
			if daysLeft < 0 {
				daysLeft = 0
			}
		}

		candidates = append(candidates, &candidate{
			id:        a.ID,
			title:     title,
			dueDate:   a.DueDate,
			score:     float64(difficulty+1) / float64(daysLeft+1),
			remaining: a.RemainingMinutes(),
		})
	}

	// Step 5: walk the window day by day, highest score first.
	var blocks []models.StudyBlock
	totalCapacity := 0
	for _, date := range dates {
		capacity := capacityMinutes(hoursByWeekday, date)
		totalCapacity += capacity
		if capacity <= 0 {
			continue
		}

		day := make([]*candidate, 0, len(candidates))
		for _, c := range candidates {
			if c.remaining > 0 && date <= c.dueDate {
				day = append(day, c)
			}
		}
		// Stable sort keeps the storage order (due date, then id) on ties.
		sort.SliceStable(day, func(i, j int) bool {
			return day[i].score > day[j].score
		})

		seq := 0
		for _, c := range day {
			for c.remaining > 0 && capacity > 0 {
				chunk := nominal
				if c.remaining < chunk {
					chunk = c.remaining
				}
				if capacity < chunk {
					chunk = capacity
				}

				blocks = append(blocks, models.StudyBlock{
					ID:           uuid.New().String(),
					UserID:       userID,
					Date:         date,
					Title:        c.title,
					DurationMin:  chunk,
					AssessmentID: c.id,
					Done:         false,
					Seq:          seq,
				})
				seq++
				c.remaining -= chunk
				capacity -= chunk
			}
			if capacity == 0 {
				break
			}
		}
	}

	// Step 6: whatever is still remaining never found capacity.
	shortfall := 0
	for _, c := range candidates {
		shortfall += c.remaining
	}

	return blocks, shortfall, totalCapacity
}

// capacityMinutes resolves a date's capacity from the weekly profile using
// the calendar weekday of the date itself.
func capacityMinutes(hoursByWeekday map[time.Weekday]float64, date string) int {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return 0
	}
	hours, ok := hoursByWeekday[t.Weekday()]
	if !ok {
		hours = constants.DefaultDailyHours
	}
	slot := models.AvailabilitySlot{Weekday: t.Weekday(), Hours: hours}
	return slot.CapacityMinutes()
}

// clampChunk bounds the nominal chunk size to [MinChunkMin, MaxChunkMin],
// falling back to the default for unset or nonsensical values.
func clampChunk(chunkMin int) int {
	if chunkMin <= 0 {
		chunkMin = constants.DefaultChunkMin
	}
	if chunkMin < constants.MinChunkMin {
		return constants.MinChunkMin
	}
	if chunkMin > constants.MaxChunkMin {
		return constants.MaxChunkMin
	}
	return chunkMin
}

func (p *Planner) userLock(userID string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()

	lock, ok := p.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[userID] = lock
	}
	return lock
}
