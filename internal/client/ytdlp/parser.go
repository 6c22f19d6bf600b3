package ytdlp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// probeJSON is the subset of the yt-dlp info dictionary the application reads.
type probeJSON struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	URL        string       `json:"url"`
	WebpageURL string       `json:"webpage_url"`
	Duration   *float64     `json:"duration"`
	Entries    []*probeJSON `json:"entries"`
}

// parseProbeOutput decodes the single JSON document printed by --dump-single-json.
func parseProbeOutput(output []byte) (*ProbeResult, error) {
	output = bytes.TrimSpace(output)
	if len(output) == 0 {
		return nil, ErrEmptyProbeOutput
	}

	var info *probeJSON
	if err := json.Unmarshal(output, &info); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}

	if info == nil {
		return nil, ErrEmptyProbeOutput
	}

	return info.toProbeResult(), nil
}

func (p *probeJSON) toProbeResult() *ProbeResult {
	if p == nil {
		return nil
	}

	result := &ProbeResult{
		ID:         p.ID,
		Title:      p.Title,
		URL:        p.URL,
		WebpageURL: p.WebpageURL,
	}

	if p.Duration != nil && *p.Duration > 0 {
		seconds := int64(math.Round(*p.Duration))
		result.DurationSeconds = &seconds
	}

	if len(p.Entries) > 0 {
		result.Entries = make([]*ProbeResult, len(p.Entries))
		for i, entry := range p.Entries {
			result.Entries[i] = entry.toProbeResult()
		}
	}

	return result
}
