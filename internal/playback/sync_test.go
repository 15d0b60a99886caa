package playback

import (
	"testing"

	"github.com/transcripthub/backend/internal/models"
)

func twoSegmentTranscript() models.Transcript {
	return models.Transcript{
		ID: 1, AudioFileID: 1,
		Speakers: []models.Speaker{
			{ID: 1, Name: "A", Segments: []models.Segment{
				{StartTime: 0, EndTime: 5, Text: "first"},
			}},
			{ID: 2, Name: "B", Segments: []models.Segment{
				{StartTime: 5, EndTime: 10, Text: "second"},
			}},
		},
	}
}

func TestResolve(t *testing.T) {
	tr := twoSegmentTranscript()

	t.Run("inside a segment", func(t *testing.T) {
		active, ok := Resolve(tr, 7)
		if !ok {
			t.Fatal("Expected an active segment at t=7")
		}
		if active.SpeakerID != 2 || active.Segment.Text != "second" {
			t.Errorf("Expected speaker B's segment, got %+v", active)
		}
	})

	t.Run("shared boundary goes to the later segment", func(t *testing.T) {
		// Both segments contain t=5; the last whose start <= 5 wins.
		active, ok := Resolve(tr, 5)
		if !ok {
			t.Fatal("Expected an active segment at t=5")
		}
		if active.SpeakerID != 2 {
			t.Errorf("Expected boundary owned by speaker B, got speaker %d", active.SpeakerID)
		}
	})

	t.Run("gap yields no active segment", func(t *testing.T) {
		gapped := models.Transcript{Speakers: []models.Speaker{
			{ID: 1, Name: "A", Segments: []models.Segment{
				{StartTime: 0, EndTime: 2, Text: "a"},
				{StartTime: 6, EndTime: 8, Text: "b"},
			}},
		}}
		if _, ok := Resolve(gapped, 4); ok {
			t.Error("Expected no active segment inside a gap")
		}
	})

	t.Run("before and after all segments", func(t *testing.T) {
		if _, ok := Resolve(tr, -1); ok {
			t.Error("Expected no active segment before start")
		}
		if _, ok := Resolve(tr, 11); ok {
			t.Error("Expected no active segment past the end")
		}
	})
}

func TestController_FocusOnChangeOnly(t *testing.T) {
	tr := twoSegmentTranscript()
	var focused []int
	c := NewController(tr, func(a ActiveSegment) {
		focused = append(focused, a.SpeakerID)
	})

	// Several updates inside the same segment focus once.
	c.Update(1)
	c.Update(2)
	c.Update(4.5)
	// Crossing into the next segment focuses again.
	c.Update(6)
	// Leaving all segments clears the active state...
	c.Update(12)
	// ...so re-entering focuses again even for the same segment.
	c.Update(6)

	want := []int{1, 2, 2}
	if len(focused) != len(want) {
		t.Fatalf("Focus calls = %v, want %v", focused, want)
	}
	for i := range want {
		if focused[i] != want[i] {
			t.Fatalf("Focus calls = %v, want %v", focused, want)
		}
	}
}

func TestController_SeekEcho(t *testing.T) {
	tr := twoSegmentTranscript()
	c := NewController(tr, nil)

	seg := tr.Speakers[1].Segments[0]
	pos := c.SeekToSegment(seg)
	if pos != 5 {
		t.Fatalf("Expected seek to segment start 5, got %v", pos)
	}

	// The media element echoes the seek back through the update stream.
	active, ok := c.Update(pos)
	if !ok || active.SpeakerID != 2 {
		t.Errorf("Expected echoed seek to activate speaker B, got %+v ok=%v", active, ok)
	}
}

func TestController_SetTranscriptAfterRename(t *testing.T) {
	tr := twoSegmentTranscript()
	c := NewController(tr, nil)
	c.Update(1)

	renamed := twoSegmentTranscript()
	renamed.Speakers[0].Name = "Alice"
	c.SetTranscript(renamed)

	active, ok := c.Update(1)
	if !ok {
		t.Fatal("Expected active segment after transcript swap")
	}
	if active.SpeakerName != "Alice" {
		t.Errorf("Expected renamed speaker, got %q", active.SpeakerName)
	}
}
