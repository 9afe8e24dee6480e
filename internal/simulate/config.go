package simulate

import (
	"time"

	"github.com/okian/salesboard/internal/domain/model"
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Members    int           // Members per role to install
	NumEvents  int           // Number of activity events to log
	Workers    int           // Number of concurrent submitters
	Timeout    time.Duration // HTTP request timeout
	Start      model.Date    // First day of the generated window
	Days       int           // Length of the generated window in days
	Seed       uint64        // Generator seed; 0 picks a random one
	OutputFile string        // Optional JSON dump of the logged events
	Verbose    bool          // Log every rejected request
}

// Stats holds simulation statistics.
type Stats struct {
	EventsGenerated int
	EventsLogged    int
	EventsFailed    int
	OutOfWindow     int
	SalesEntries    int
	AMEntries       int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}

// Window returns the inclusive date range the run logs into.
func (c *Config) Window() (model.Date, model.Date) {
	return c.Start, c.Start.AddDays(c.Days - 1)
}
