// Package playback maps a continuously updating media position to the
// active transcript segment. The media element itself lives in the browser;
// this package only resolves positions and decides when the view should
// scroll.
package playback

import "github.com/transcripthub/backend/internal/models"

// ActiveSegment is the segment whose time bounds contain the playback
// position, together with its owning speaker.
type ActiveSegment struct {
	SpeakerID   int            `json:"speakerId"`
	SpeakerName string         `json:"speakerName"`
	Segment     models.Segment `json:"segment"`
}

// Resolve finds the active segment for currentTime. Segments are scanned
// flattened in stored order (segment order within speaker, speaker order
// within transcript). Boundary ownership is deterministic: among segments
// whose bounds contain the time, the last one whose start <= currentTime
// wins, so at a shared boundary the later segment takes over. Gaps between
// segments are valid and yield no active segment.
func Resolve(t models.Transcript, currentTime float64) (ActiveSegment, bool) {
	var active ActiveSegment
	found := false
	for _, sp := range t.Speakers {
		for _, seg := range sp.Segments {
			if seg.StartTime <= currentTime && currentTime <= seg.EndTime {
				active = ActiveSegment{SpeakerID: sp.ID, SpeakerName: sp.Name, Segment: seg}
				found = true
			}
		}
	}
	return active, found
}

// Controller tracks the active segment across time updates and requests
// visual focus only when it changes. Not safe for concurrent use; each
// viewer owns one controller.
type Controller struct {
	transcript models.Transcript
	active     ActiveSegment
	hasActive  bool
	onFocus    func(ActiveSegment)
}

// NewController creates a controller over a transcript. onFocus is invoked
// whenever a new segment becomes active; it may be nil.
func NewController(t models.Transcript, onFocus func(ActiveSegment)) *Controller {
	return &Controller{transcript: t, onFocus: onFocus}
}

// Update feeds a position from the media time-update stream. It returns the
// current active segment, if any.
func (c *Controller) Update(currentTime float64) (ActiveSegment, bool) {
	active, found := Resolve(c.transcript, currentTime)
	if !found {
		c.hasActive = false
		return ActiveSegment{}, false
	}
	changed := !c.hasActive ||
		c.active.SpeakerID != active.SpeakerID ||
		c.active.Segment != active.Segment
	c.active = active
	c.hasActive = true
	if changed && c.onFocus != nil {
		c.onFocus(active)
	}
	return active, true
}

// SeekToSegment returns the position a click on a segment seeks to. The
// media element honors the seek and echoes it back through Update.
func (c *Controller) SeekToSegment(seg models.Segment) float64 {
	return seg.StartTime
}

// SetTranscript swaps the transcript, keeping sync after a speaker rename
// replaced the full speaker list.
func (c *Controller) SetTranscript(t models.Transcript) {
	c.transcript = t
	c.hasActive = false
}
