// Package catalog owns the entity collection of the asset library.
// All reads and writes go through the Repository; every successful
// mutation serializes the whole collection to the snapshot store.
package catalog

// EntityType classifies a stored asset.
type EntityType string

const (
	TypePrompt    EntityType = "prompt"
	TypeImage     EntityType = "image"
	TypeVideo     EntityType = "video"
	TypeCharacter EntityType = "character"
	TypeProject   EntityType = "project"
	TypeTool      EntityType = "tool"
)

// validTypes is the set of recognized entity types for validation.
var validTypes = map[EntityType]bool{
	TypePrompt:    true,
	TypeImage:     true,
	TypeVideo:     true,
	TypeCharacter: true,
	TypeProject:   true,
	TypeTool:      true,
}

// IsValidType checks if a string is a recognized EntityType.
func IsValidType(s string) bool {
	return validTypes[EntityType(s)]
}

// AllTypes lists every recognized entity type.
var AllTypes = []string{
	string(TypePrompt), string(TypeImage), string(TypeVideo),
	string(TypeCharacter), string(TypeProject), string(TypeTool),
}

// Entity is the sole persisted record type of the library.
//
// ID and CreatedAt are fixed at creation, Type never changes afterwards.
// RelatedIDs records undirected relations redundantly on both sides and is
// mutated only through Link/Unlink. Metadata is a free-form attribute bag
// (model, params, seed, dimensions, duration by convention).
type Entity struct {
	ID         string            `json:"id"`
	Type       EntityType        `json:"type"`
	Title      string            `json:"title"`
	Content    string            `json:"content,omitempty"`
	MediaURL   string            `json:"mediaUrl,omitempty"`
	Tags       []string          `json:"tags"`
	CreatedAt  int64             `json:"createdAt"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	RelatedIDs []string          `json:"relatedIds"`
}

// clone returns a deep copy so callers can never alias repository state.
func (e *Entity) clone() *Entity {
	out := *e
	if e.Tags != nil {
		out.Tags = append([]string(nil), e.Tags...)
	}
	if e.RelatedIDs != nil {
		out.RelatedIDs = append([]string(nil), e.RelatedIDs...)
	}
	if e.Metadata != nil {
		out.Metadata = make(map[string]string, len(e.Metadata))
		for k, v := range e.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}

// Patch carries a partial update for Entity. Nil fields are left untouched;
// set fields replace the existing value wholesale (Tags and Metadata are not
// merged element-wise). ID, Type, CreatedAt and RelatedIDs are deliberately
// absent: the first three are immutable, relations go through Link/Unlink.
type Patch struct {
	Title    *string
	Content  *string
	MediaURL *string
	Tags     *[]string
	Metadata *map[string]string
}
