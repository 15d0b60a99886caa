// Package search implements the transcript search used by the search page:
// a linear scan over segment text and file names with post-filters. There is
// no index and no relevance ranking; result order is transcript iteration
// order.
package search

import (
	"context"
	"strings"
	"time"

	"github.com/transcripthub/backend/internal/models"
)

// MaxMatchesPerFile caps the matches reported for a single file. The
// filename match, when present, is appended after segment matches and
// counts against the cap.
const MaxMatchesPerFile = 5

// DateRange narrows results by the audio file's upload timestamp.
type DateRange string

const (
	DateRangeAll   DateRange = "all"
	DateRangeToday DateRange = "today" // upload >= start of current day
	DateRangeWeek  DateRange = "week"  // upload >= now - 7 days
	DateRangeMonth DateRange = "month" // upload >= now - 1 calendar month
)

// Filters are applied after matching, in order, each narrowing the set.
type Filters struct {
	Speaker   string    // substring filter on any match's speaker name
	Folder    string    // substring filter on the owning folder's name
	DateRange DateRange // "" is treated as all
}

// Match is one hit within a transcript.
type Match struct {
	SpeakerName string  `json:"speakerName"`
	Text        string  `json:"text"`
	StartTime   float64 `json:"startTime"`
	EndTime     float64 `json:"endTime"`
	IsFileName  bool    `json:"isFileName,omitempty"`
}

// Group is the set of matches found within a single transcript.
type Group struct {
	Transcript models.Transcript `json:"transcript"`
	AudioFile  models.AudioFile  `json:"audioFile"`
	Folder     *models.Folder    `json:"folder,omitempty"`
	Matches    []Match           `json:"matches"`
}

// Source supplies the full data set a search scans. The entity stores
// satisfy this through the catalog.
type Source interface {
	Transcripts(ctx context.Context) ([]models.Transcript, error)
	AudioFiles(ctx context.Context) ([]models.AudioFile, error)
	Folders(ctx context.Context) ([]models.Folder, error)
}

// Engine runs searches against a Source.
type Engine struct {
	source Source
	now    func() time.Time
}

// New creates a search engine.
func New(source Source) *Engine {
	return &Engine{source: source, now: time.Now}
}

// Search scans every transcript for the query and applies the filters.
// An empty or whitespace-only query performs no scan and returns nil,
// which callers render as the "no query yet" state; a non-nil empty slice
// means the search ran and found nothing.
func (e *Engine) Search(ctx context.Context, query string, filters Filters) ([]Group, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	transcripts, err := e.source.Transcripts(ctx)
	if err != nil {
		return nil, err
	}
	files, err := e.source.AudioFiles(ctx)
	if err != nil {
		return nil, err
	}
	folders, err := e.source.Folders(ctx)
	if err != nil {
		return nil, err
	}

	filesByID := make(map[int]models.AudioFile, len(files))
	for _, f := range files {
		filesByID[f.ID] = f
	}
	foldersByID := make(map[int]models.Folder, len(folders))
	for _, f := range folders {
		foldersByID[f.ID] = f
	}

	needle := strings.ToLower(query)
	groups := make([]Group, 0)

	for _, t := range transcripts {
		file, ok := filesByID[t.AudioFileID]
		if !ok {
			continue // orphaned transcript, skip
		}

		var matches []Match
		for _, sp := range t.Speakers {
			for _, seg := range sp.Segments {
				if strings.Contains(strings.ToLower(seg.Text), needle) {
					matches = append(matches, Match{
						SpeakerName: sp.Name,
						Text:        seg.Text,
						StartTime:   seg.StartTime,
						EndTime:     seg.EndTime,
					})
				}
			}
		}

		if strings.Contains(strings.ToLower(file.Name), needle) {
			matches = append(matches, Match{
				SpeakerName: "File Name",
				Text:        file.Name,
				IsFileName:  true,
			})
		}

		if len(matches) == 0 {
			continue
		}
		if len(matches) > MaxMatchesPerFile {
			matches = matches[:MaxMatchesPerFile]
		}

		g := Group{Transcript: t, AudioFile: file, Matches: matches}
		if file.FolderID != nil {
			if folder, ok := foldersByID[*file.FolderID]; ok {
				g.Folder = &folder
			}
		}
		groups = append(groups, g)
	}

	return e.applyFilters(groups, filters), nil
}

// applyFilters narrows the result set in order: speaker, folder, date range.
// Filters never reorder or re-score.
func (e *Engine) applyFilters(groups []Group, filters Filters) []Group {
	if filters.Speaker != "" {
		speaker := strings.ToLower(filters.Speaker)
		groups = keep(groups, func(g Group) bool {
			for _, m := range g.Matches {
				if strings.Contains(strings.ToLower(m.SpeakerName), speaker) {
					return true
				}
			}
			return false
		})
	}

	if filters.Folder != "" {
		folder := strings.ToLower(filters.Folder)
		groups = keep(groups, func(g Group) bool {
			return g.Folder != nil && strings.Contains(strings.ToLower(g.Folder.Name), folder)
		})
	}

	if filters.DateRange != "" && filters.DateRange != DateRangeAll {
		cutoff, ok := e.cutoff(filters.DateRange)
		if ok {
			groups = keep(groups, func(g Group) bool {
				return !g.AudioFile.UploadDate.Before(cutoff)
			})
		}
	}

	return groups
}

func (e *Engine) cutoff(r DateRange) (time.Time, bool) {
	now := e.now()
	switch r {
	case DateRangeToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	case DateRangeWeek:
		return now.AddDate(0, 0, -7), true
	case DateRangeMonth:
		return now.AddDate(0, -1, 0), true
	}
	return time.Time{}, false
}

func keep(groups []Group, pred func(Group) bool) []Group {
	out := groups[:0]
	for _, g := range groups {
		if pred(g) {
			out = append(out, g)
		}
	}
	return out
}
