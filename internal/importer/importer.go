package importer

import (
	"io"

	"github.com/MrJamesThe3rd/pulse/internal/sale"
)

// Importer turns an uploaded file into sales ready to be created.
type Importer interface {
	Parse(r io.Reader) ([]sale.CreateParams, error)
}
