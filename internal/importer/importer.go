package importer

import (
	"io"

	"github.com/MrJamesThe3rd/tally/internal/importer/timesheet"
)

type Importer interface {
	Parse(r io.Reader) ([]timesheet.Row, error)
}
