package schema

import "errors"

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for persistence.
	DatabaseBackend string

	// Period is a named slice of the day.
	Period string

	// ColorScheme is a page color-scheme preference.
	ColorScheme string

	// StoryView selects which view a narrative step re-renders.
	StoryView string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	HTMLOut    OutputMode = "html"
)

// All persistence backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	BoltBackend       DatabaseBackend = "bolt"
	NoneBackend       DatabaseBackend = "none"
)

// Periods of the day, in clock order.
const (
	Night     Period = "Night"     // [0, 6)
	Morning   Period = "Morning"   // [6, 12)
	Afternoon Period = "Afternoon" // [12, 18)
	Evening   Period = "Evening"   // [18, 24)
)

// Color schemes the theme switcher accepts.
const (
	AutoScheme  ColorScheme = "light dark" // default
	LightScheme ColorScheme = "light"
	DarkScheme  ColorScheme = "dark"
)

// Narrative views.
const (
	ScatterView StoryView = "scatter"
	FilesView   StoryView = "files"
)

// Summary labels, in display order.
const (
	LabelTotalLOC      = "Total LOC"
	LabelTotalCommits  = "Total Commits"
	LabelNumberOfFiles = "Number of Files"
	LabelLongestFile   = "Longest File"
	LabelAvgLineLength = "Average Line Length (in chars)"
	LabelMostActive    = "Most Active Time of Day"
)

// NotAvailable is shown for statistics that cannot be computed.
const NotAvailable = "N/A"

// UnknownAuthor is shown when a commit has no author.
const UnknownAuthor = "Unknown"

// ColorSchemeKey is the preference key under which the theme is stored.
const ColorSchemeKey = "colorScheme"

// Sentinel errors.
var (
	ErrNoCommits     = errors.New("no commits loaded")
	ErrInvalidScheme = errors.New("invalid color scheme")
	ErrStepRange     = errors.New("narrative step out of range")
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	HTMLOut:    {},
}

// ValidDatabaseBackends lists all valid SQL backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidPrefBackends lists all valid preference backends.
var ValidPrefBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	BoltBackend:       {},
	NoneBackend:       {},
}

// ValidColorSchemes lists all accepted color schemes.
var ValidColorSchemes = map[ColorScheme]struct{}{
	AutoScheme:  {},
	LightScheme: {},
	DarkScheme:  {},
}

// ColorSchemeLabels maps each scheme to the label the switcher shows.
var ColorSchemeLabels = []struct {
	Scheme ColorScheme
	Label  string
}{
	{AutoScheme, "Automatic"},
	{LightScheme, "Light"},
	{DarkScheme, "Dark"},
}

// PeriodOfHour buckets an hour of the day into a Period.
func PeriodOfHour(hour int) Period {
	switch {
	case hour < 6:
		return Night
	case hour < 12:
		return Morning
	case hour < 18:
		return Afternoon
	default:
		return Evening
	}
}
