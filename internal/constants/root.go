package constants

// AssessmentStatus represents the workflow state of an assessment
type AssessmentStatus string

const (
	AppName            = "studylit"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/studylit/studylit.db"
	Version            = "v0.2.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// PlanWindowDays is the number of calendar days a generation run covers,
	// starting at and including the reference date
	PlanWindowDays = 7

	// DefaultDailyHours is the studying capacity assumed for weekdays that
	// have no availability entry
	DefaultDailyHours = 2.0

	// DefaultChunkMin is the nominal study-block length in minutes
	DefaultChunkMin = 30

	// MinChunkMin and MaxChunkMin bound the nominal chunk size. A block can
	// still be shorter than MinChunkMin when it is the final fragment of an
	// assessment or of a day's capacity.
	MinChunkMin = 15
	MaxChunkMin = 60

	// DefaultDifficulty is assumed when an assessment has no course or
	// references a course that no longer exists
	DefaultDifficulty = 3

	MinDifficulty = 1
	MaxDifficulty = 5

	// DefaultUserID is the profile commands operate on unless --user is given
	DefaultUserID = "default"

	DefaultTimezone = "Local"

	// Assessment status constants
	StatusTodo       AssessmentStatus = "todo"
	StatusInProgress AssessmentStatus = "in-progress"
	StatusDone       AssessmentStatus = "done"

	// Settings keys
	SettingChunkMin = "chunk_min"
	SettingTimezone = "timezone"
)

// ValidStatuses lists the assessment workflow states in their natural order.
var ValidStatuses = []AssessmentStatus{StatusTodo, StatusInProgress, StatusDone}
