package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/oshokin/yt-audio-grabber/internal/logger"
	"github.com/oshokin/yt-audio-grabber/internal/service/grabber"
	"github.com/oshokin/yt-audio-grabber/internal/utils"
)

// selectionPageSize is the number of entries shown at once by the prompt.
const selectionPageSize = 15

// askFunc asks a survey prompt and writes the answer to response.
type askFunc func(prompt survey.Prompt, response any) error

// promptSelector picks collection entries from the --items flag, the --yes flag
// or an interactive multi-select prompt.
type promptSelector struct {
	// items is a 1-based index list such as "1,3,5-7"; empty means "not given".
	items string
	// selectAll skips the prompt and keeps every entry.
	selectAll bool
	// interactive allows the prompt.
	interactive bool
	// ask shows the prompt.
	ask askFunc
}

// newPromptSelector creates a selector for the console.
func newPromptSelector(items string, selectAll, interactive bool) *promptSelector {
	return &promptSelector{
		items:       items,
		selectAll:   selectAll,
		interactive: interactive,
		ask: func(prompt survey.Prompt, response any) error {
			return survey.AskOne(prompt, response)
		},
	}
}

// Select implements grabber.Selector.
func (s *promptSelector) Select(
	ctx context.Context,
	collection *grabber.CollectionDescriptor,
	selection *grabber.SelectionState,
) (bool, error) {
	if s.items != "" {
		indexes, err := utils.ParseIndexList(s.items, selection.Len())
		if err != nil {
			logger.Error(ctx, colorError.Sprintf("Invalid --items for '%s': %v", collection.Title, err))

			return false, err
		}

		return true, selectOnly(selection, indexes)
	}

	if s.selectAll || !s.interactive {
		if !s.selectAll {
			logger.Infof(ctx, "No terminal attached, downloading all %d items", selection.Len())
		}

		return true, selection.SelectAll()
	}

	var (
		labels   = selectionLabels(selection)
		defaults = make([]int, 0, selection.Len())
		chosen   []int
	)

	for i := range labels {
		if selection.Included(i) {
			defaults = append(defaults, i)
		}
	}

	prompt := &survey.MultiSelect{
		Message:  fmt.Sprintf("Select items to download from '%s':", collection.Title),
		Options:  labels,
		Default:  defaults,
		PageSize: selectionPageSize,
	}

	if err := s.ask(prompt, &chosen); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return false, nil
		}

		logger.Errorf(ctx, "Failed to read selection: %v", err)

		return false, fmt.Errorf("failed to read selection: %w", err)
	}

	return true, selectOnly(selection, chosen)
}

// selectOnly includes exactly the entries at indexes.
func selectOnly(selection *grabber.SelectionState, indexes []int) error {
	if err := selection.DeselectAll(); err != nil {
		return err
	}

	for _, i := range indexes {
		if err := selection.Toggle(i); err != nil {
			return err
		}
	}

	return nil
}

// selectionLabels renders every entry as "N. Title  (m:ss)".
func selectionLabels(selection *grabber.SelectionState) []string {
	labels := make([]string, selection.Len())

	for i := range labels {
		item := selection.Item(i)

		title := item.DisplayTitle
		if title == "" {
			title = item.EffectiveLocator()
		}

		label := fmt.Sprintf("%d. %s", i+1, title)

		if item.DurationSeconds != nil {
			if clock := utils.FormatClock(*item.DurationSeconds); clock != "" {
				label += fmt.Sprintf("  (%s)", clock)
			}
		}

		labels[i] = label
	}

	return labels
}
