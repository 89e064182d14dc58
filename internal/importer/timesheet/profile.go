package timesheet

// numberStyle is how a profile writes decimals.
type numberStyle int

const (
	// european uses "." for thousands and "," for decimals: "1.250,50".
	european numberStyle = iota
	// english uses "," for thousands and "." for decimals: "1,250.50".
	english
)

// Profile describes the column layout of a timesheet export. Adding a format
// is adding an entry to profiles.
type Profile struct {
	Name     string
	Comma    rune
	DateCol  string
	DescCol  string
	HoursCol string
	// RateCol is optional. Rows of a sheet without it take the caller's
	// default rate.
	RateCol     string
	DateLayouts []string
	Numbers     numberStyle
}

func (p Profile) requiredCols() []string {
	return []string{p.DateCol, p.DescCol, p.HoursCol}
}

// profiles is tried in order. Header names are compared case-insensitively.
var profiles = []Profile{
	{
		Name:        "nl",
		Comma:       ';',
		DateCol:     "datum",
		DescCol:     "omschrijving",
		HoursCol:    "uren",
		RateCol:     "tarief",
		DateLayouts: []string{"02-01-2006", "2-1-2006", "2006-01-02"},
		Numbers:     european,
	},
	{
		Name:        "en",
		Comma:       ',',
		DateCol:     "date",
		DescCol:     "description",
		HoursCol:    "hours",
		RateCol:     "rate",
		DateLayouts: []string{"2006-01-02", "01/02/2006"},
		Numbers:     english,
	},
	{
		Name:        "en-semicolon",
		Comma:       ';',
		DateCol:     "date",
		DescCol:     "description",
		HoursCol:    "hours",
		RateCol:     "rate",
		DateLayouts: []string{"2006-01-02", "02-01-2006"},
		Numbers:     european,
	},
}
