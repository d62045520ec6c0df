package model

import (
	"time"

	"github.com/google/uuid"
)

// BlockSet is a named, reusable block list. Built-in example sets and
// user-saved lists share this type.
type BlockSet struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	CreatedAt   string      `json:"created_at"`
	UpdatedAt   string      `json:"updated_at"`
	Specs       []BlockSpec `json:"specs"`
}

// NewBlockSet creates a block set holding a copy of specs.
func NewBlockSet(name, description string, specs []BlockSpec) BlockSet {
	now := time.Now().UTC().Format(time.RFC3339)
	return BlockSet{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Specs:       copySpecs(specs),
	}
}

// ToProject creates a new Project from this block set.
func (bs BlockSet) ToProject(projectName string, settings PackSettings) Project {
	return Project{
		Name:     projectName,
		Specs:    copySpecs(bs.Specs),
		Settings: settings,
	}
}

// Count returns the number of individual blocks the set expands to.
func (bs BlockSet) Count() int {
	n := 0
	for _, s := range bs.Specs {
		if s.Num > 0 {
			n += s.Num
		}
	}
	return n
}

// BlockSetStore holds a collection of block sets.
type BlockSetStore struct {
	Sets []BlockSet `json:"sets"`
}

// NewBlockSetStore creates an empty store.
func NewBlockSetStore() BlockSetStore {
	return BlockSetStore{
		Sets: []BlockSet{},
	}
}

// Add adds a block set to the store.
func (s *BlockSetStore) Add(bs BlockSet) {
	s.Sets = append(s.Sets, bs)
}

// Remove removes a block set by ID. Returns true if found and removed.
func (s *BlockSetStore) Remove(id string) bool {
	for i, bs := range s.Sets {
		if bs.ID == id {
			s.Sets = append(s.Sets[:i], s.Sets[i+1:]...)
			return true
		}
	}
	return false
}

// FindByName returns a pointer to the first set with the given name, or nil.
func (s *BlockSetStore) FindByName(name string) *BlockSet {
	for i := range s.Sets {
		if s.Sets[i].Name == name {
			return &s.Sets[i]
		}
	}
	return nil
}

// Names returns the set names in store order.
func (s *BlockSetStore) Names() []string {
	names := make([]string, len(s.Sets))
	for i, bs := range s.Sets {
		names[i] = bs.Name
	}
	return names
}

// Examples are the built-in block sets.
var Examples = []BlockSet{
	{
		ID:          "complex",
		Name:        "complex",
		Description: "Mixed sizes and three block types",
		Specs: []BlockSpec{
			{W: 100, H: 100, Num: 3, Type: 0},
			{W: 60, H: 60, Num: 3, Type: 0},
			{W: 100, H: 40, Num: 0, Type: 2},
			{W: 20, H: 50, Num: 20, Type: 1},
			{W: 250, H: 250, Num: 1, Type: 1},
			{W: 250, H: 100, Num: 1, Type: 0},
			{W: 100, H: 250, Num: 1, Type: 0},
			{W: 200, H: 80, Num: 1, Type: 2},
			{W: 80, H: 400, Num: 1, Type: 0},
			{W: 60, H: 60, Num: 10, Type: 1},
		},
	},
	{
		ID:          "squares",
		Name:        "squares",
		Description: "Nine equal squares",
		Specs: []BlockSpec{
			{W: 100, H: 100, Num: 9, Type: 0},
		},
	},
	{
		ID:          "strips",
		Name:        "strips",
		Description: "Long thin strips in both orientations",
		Specs: []BlockSpec{
			{W: 400, H: 20, Num: 4, Type: 0},
			{W: 20, H: 300, Num: 6, Type: 1},
			{W: 50, H: 50, Num: 8, Type: 2},
		},
	},
}

// GetExample returns a built-in block set by name.
func GetExample(name string) (BlockSet, bool) {
	for _, bs := range Examples {
		if bs.Name == name {
			return bs, true
		}
	}
	return BlockSet{}, false
}

// ExampleNames returns the names of all built-in block sets.
func ExampleNames() []string {
	names := make([]string, len(Examples))
	for i, bs := range Examples {
		names[i] = bs.Name
	}
	return names
}

func copySpecs(specs []BlockSpec) []BlockSpec {
	if specs == nil {
		return []BlockSpec{}
	}
	cp := make([]BlockSpec, len(specs))
	copy(cp, specs)
	return cp
}
