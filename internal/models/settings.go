package models

// Settings represents application-wide settings
type Settings struct {
	ChunkMin int    `json:"chunk_min"` // nominal study-block length in minutes
	Timezone string `json:"timezone"`  // IANA timezone name (e.g. "America/New_York", or "Local" for system timezone)
}
