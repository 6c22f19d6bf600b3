package app

import (
	"context"
	"errors"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/yt-audio-grabber/internal/service/grabber"
	"github.com/oshokin/yt-audio-grabber/internal/utils"
)

var errPromptBroken = errors.New("prompt broken")

func int64Ptr(v int64) *int64 {
	return &v
}

// newTestSelection builds a four-entry collection.
func newTestSelection() (*grabber.CollectionDescriptor, *grabber.SelectionState) {
	collection := &grabber.CollectionDescriptor{
		Title: "Mix",
		Items: []grabber.MediaItemRef{
			{Locator: "https://example/a", DisplayTitle: "First", DurationSeconds: int64Ptr(75)},
			{Locator: "https://example/b", DisplayTitle: "Second", DurationSeconds: int64Ptr(3725)},
			{AlternateID: "c-id"},
			{Locator: "https://example/d", DisplayTitle: "Fourth", DurationSeconds: int64Ptr(0)},
		},
	}

	return collection, grabber.NewSelectionState(collection.Items)
}

// included returns the indexes of the selected entries.
func included(selection *grabber.SelectionState) []int {
	var result []int

	for i := range selection.Len() {
		if selection.Included(i) {
			result = append(result, i)
		}
	}

	return result
}

// TestSelectionLabels tests rendering of the prompt options.
func TestSelectionLabels(t *testing.T) {
	t.Parallel()

	_, selection := newTestSelection()

	assert.Equal(t, []string{
		"1. First  (1:15)",
		"2. Second  (1:02:05)",
		"3. c-id",
		"4. Fourth",
	}, selectionLabels(selection))
}

// TestPromptSelector_Select tests every way entries can be picked.
func TestPromptSelector_Select(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		selector          *promptSelector
		expectedConfirmed bool
		expectedIncluded  []int
		expectedErr       error
	}{
		{
			name:              "items flag",
			selector:          &promptSelector{items: "1,3-4"},
			expectedConfirmed: true,
			expectedIncluded:  []int{0, 2, 3},
		},
		{
			name:              "items flag wins over yes",
			selector:          &promptSelector{items: "2", selectAll: true},
			expectedConfirmed: true,
			expectedIncluded:  []int{1},
		},
		{
			name:             "items out of range",
			selector:         &promptSelector{items: "5"},
			expectedIncluded: []int{0, 1, 2, 3},
			expectedErr:      utils.ErrInvalidIndexList,
		},
		{
			name:              "yes flag",
			selector:          &promptSelector{selectAll: true, interactive: true},
			expectedConfirmed: true,
			expectedIncluded:  []int{0, 1, 2, 3},
		},
		{
			name:              "no terminal",
			selector:          &promptSelector{},
			expectedConfirmed: true,
			expectedIncluded:  []int{0, 1, 2, 3},
		},
		{
			name: "prompt answer",
			selector: &promptSelector{
				interactive: true,
				ask: func(prompt survey.Prompt, response any) error {
					multiSelect, ok := prompt.(*survey.MultiSelect)
					if !ok {
						return errPromptBroken
					}

					if len(multiSelect.Options) != 4 {
						return errPromptBroken
					}

					*response.(*[]int) = []int{1, 3} //nolint:forcetypeassert // Test double.

					return nil
				},
			},
			expectedConfirmed: true,
			expectedIncluded:  []int{1, 3},
		},
		{
			name: "prompt with nothing chosen",
			selector: &promptSelector{
				interactive: true,
				ask:         func(survey.Prompt, any) error { return nil },
			},
			expectedConfirmed: true,
		},
		{
			name: "prompt interrupted",
			selector: &promptSelector{
				interactive: true,
				ask:         func(survey.Prompt, any) error { return terminal.InterruptErr },
			},
			expectedIncluded: []int{0, 1, 2, 3},
		},
		{
			name: "prompt failure",
			selector: &promptSelector{
				interactive: true,
				ask:         func(survey.Prompt, any) error { return errPromptBroken },
			},
			expectedIncluded: []int{0, 1, 2, 3},
			expectedErr:      errPromptBroken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			collection, selection := newTestSelection()

			confirmed, err := tt.selector.Select(context.Background(), collection, selection)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.expectedConfirmed, confirmed)
			assert.Equal(t, tt.expectedIncluded, included(selection))
		})
	}
}
