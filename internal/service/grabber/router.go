package grabber

import (
	"context"

	"github.com/oshokin/yt-audio-grabber/internal/client/ytdlp"
)

// Router classifies a locator as a single item or a collection.
type Router struct {
	// client extracts metadata.
	client ytdlp.Client
}

// NewRouter creates a Router over the extractor client.
func NewRouter(client ytdlp.Client) *Router {
	return &Router{client: client}
}

// Resolve extracts the metadata of locator without downloading it.
// Playlists with at least one resolvable entry become a collection;
// everything else is downloaded as a single item from the original locator.
func (r *Router) Resolve(ctx context.Context, locator string) (*Resolution, error) {
	probe, err := r.client.Probe(ctx, locator)
	if err != nil {
		return nil, &ResolutionError{Locator: locator, Err: err}
	}

	items := make([]MediaItemRef, 0, len(probe.Entries))

	for _, entry := range probe.Entries {
		if entry == nil {
			continue
		}

		item := newMediaItemRef(entry)
		if item.EffectiveLocator() == "" {
			continue
		}

		items = append(items, item)
	}

	if len(items) == 0 {
		single := newMediaItemRef(probe)
		single.Locator = locator

		return &Resolution{Single: &single}, nil
	}

	return &Resolution{
		Collection: &CollectionDescriptor{
			Title: probe.Title,
			Items: items,
		},
	}, nil
}

// newMediaItemRef converts an extractor entry to a MediaItemRef.
func newMediaItemRef(probe *ytdlp.ProbeResult) MediaItemRef {
	alternateID := probe.WebpageURL
	if alternateID == "" {
		alternateID = probe.ID
	}

	return MediaItemRef{
		Locator:         probe.URL,
		AlternateID:     alternateID,
		DisplayTitle:    probe.Title,
		DurationSeconds: probe.DurationSeconds,
	}
}
