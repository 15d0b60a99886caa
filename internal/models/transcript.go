package models

import "time"

// Segment is a time-bounded span of transcribed speech attributed to one
// speaker. Segments are immutable once created; only the owning speaker's
// name is editable.
type Segment struct {
	StartTime float64 `json:"startTime" msgpack:"startTime"` // seconds
	EndTime   float64 `json:"endTime" msgpack:"endTime"`     // seconds
	Text      string  `json:"text" msgpack:"text"`
}

// Speaker is a named participant within a transcript, owning an ordered
// sequence of segments. The ID is scoped to the transcript.
type Speaker struct {
	ID       int       `json:"id" msgpack:"id"`
	Name     string    `json:"name" msgpack:"name"`
	Segments []Segment `json:"segments" msgpack:"segments"`
}

// Transcript is the diarized text of one audio file. Exactly one transcript
// exists per completed file, looked up by AudioFileID. Updates replace the
// full speaker list, never individual segments.
type Transcript struct {
	ID          int       `json:"id" msgpack:"id"`
	AudioFileID int       `json:"audioFileId" msgpack:"audioFileId"`
	Speakers    []Speaker `json:"speakers" msgpack:"speakers"`
	CreatedAt   time.Time `json:"createdAt" msgpack:"createdAt"`
}

// CloneSpeakers returns a deep copy of the speaker list so callers can
// mutate it without aliasing stored state.
func CloneSpeakers(speakers []Speaker) []Speaker {
	if speakers == nil {
		return nil
	}
	out := make([]Speaker, len(speakers))
	for i, sp := range speakers {
		out[i] = sp
		out[i].Segments = append([]Segment(nil), sp.Segments...)
	}
	return out
}
