package skill

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one canonical skill of the taxonomy. Entries are reference data and are
// never mutated after load.
type Entry struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Slug      string    `json:"slug" yaml:"slug"`
	Category  string    `json:"category" yaml:"category"`
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"-"`
}

// Slugify derives a slug from a display name: lowercased, whitespace collapsed to "-".
func Slugify(name string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	return strings.Join(fields, "-")
}
