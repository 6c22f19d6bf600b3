package grabber

// SelectionState holds the inclusion flag of every entry of a collection.
// Every entry is included on creation. The state is frozen by Confirm or Cancel.
type SelectionState struct {
	items    []MediaItemRef
	included []bool
	frozen   bool
}

// NewSelectionState creates a selection with every item included.
func NewSelectionState(items []MediaItemRef) *SelectionState {
	included := make([]bool, len(items))
	for i := range included {
		included[i] = true
	}

	return &SelectionState{
		items:    items,
		included: included,
	}
}

// Len returns the number of entries.
func (s *SelectionState) Len() int {
	return len(s.items)
}

// Item returns the entry at index i.
func (s *SelectionState) Item(i int) MediaItemRef {
	return s.items[i]
}

// Included reports whether the entry at index i is selected.
func (s *SelectionState) Included(i int) bool {
	return i >= 0 && i < len(s.included) && s.included[i]
}

// IncludedCount returns the number of selected entries.
func (s *SelectionState) IncludedCount() int {
	count := 0

	for _, included := range s.included {
		if included {
			count++
		}
	}

	return count
}

// Frozen reports whether the selection can no longer change.
func (s *SelectionState) Frozen() bool {
	return s.frozen
}

// SelectAll includes every entry.
func (s *SelectionState) SelectAll() error {
	return s.setAll(true)
}

// DeselectAll excludes every entry.
func (s *SelectionState) DeselectAll() error {
	return s.setAll(false)
}

// Toggle flips the inclusion of the entry at index i.
func (s *SelectionState) Toggle(i int) error {
	if s.frozen {
		return ErrSelectionFrozen
	}

	if i < 0 || i >= len(s.included) {
		return ErrIndexOutOfRange
	}

	s.included[i] = !s.included[i]

	return nil
}

// Confirm freezes the selection and returns the locators of the included entries in order.
// An empty result means there is nothing to download.
func (s *SelectionState) Confirm() ([]string, error) {
	if s.frozen {
		return nil, ErrSelectionFrozen
	}

	s.frozen = true

	locators := make([]string, 0, len(s.items))

	for i, item := range s.items {
		if !s.included[i] {
			continue
		}

		if locator := item.EffectiveLocator(); locator != "" {
			locators = append(locators, locator)
		}
	}

	return locators, nil
}

// Cancel discards the selection.
func (s *SelectionState) Cancel() {
	s.frozen = true
	s.items = nil
	s.included = nil
}

func (s *SelectionState) setAll(value bool) error {
	if s.frozen {
		return ErrSelectionFrozen
	}

	for i := range s.included {
		s.included[i] = value
	}

	return nil
}
