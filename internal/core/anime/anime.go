package anime

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/animes/internal/platform/apperr"
	"github.com/taibuivan/animes/internal/platform/validate"
)

// Anime is the single catalogue entry. ID is nil until the repository assigns it.
type Anime struct {
	ID   *int   `json:"id,omitempty"`
	Name string `json:"name"`
}

const (
	FieldID   = "id"
	FieldName = "name"

	// MaxNameLength matches the width of the name column.
	MaxNameLength = 255
)

// ErrInvalidName is the client message for every rejected name.
const ErrInvalidName = "Invalid name"

// NormalizeName trims surrounding whitespace and composes the name to Unicode NFC,
// so visually identical names are stored identically.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Validate reports INVALID_ARGUMENT "Invalid name" when the name is blank or too long.
func Validate(anime *Anime) error {
	if anime == nil {
		return apperr.InvalidArgument(ErrInvalidName, apperr.FieldError{Field: FieldName, Message: "This field is required"})
	}

	name := NormalizeName(anime.Name)

	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, MaxNameLength)
	return validator.InvalidArgument(ErrInvalidName)
}

// withID returns a detached copy carrying id.
func (anime *Anime) withID(id int) *Anime {
	return &Anime{ID: &id, Name: anime.Name}
}
