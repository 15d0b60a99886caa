package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/transcripthub/backend/internal/search"
)

// searchMatch decorates an engine match with highlight spans for the
// client's <mark> rendering.
type searchMatch struct {
	search.Match
	Spans []search.Span `json:"spans,omitempty"`
}

type searchGroup struct {
	search.Group
	Matches []searchMatch `json:"matches"`
}

// searchResponse distinguishes "no query yet" (Searched=false) from a
// search that ran and found nothing.
type searchResponse struct {
	Query    string        `json:"query"`
	Searched bool          `json:"searched"`
	Results  []searchGroup `json:"results"`
}

// HandleSearch runs a transcript search.
// Query parameters: q, speaker, folder, dateRange (all|today|week|month).
func (h *Handler) HandleSearch(c echo.Context) error {
	query := c.QueryParam("q")
	filters := search.Filters{
		Speaker:   c.QueryParam("speaker"),
		Folder:    c.QueryParam("folder"),
		DateRange: search.DateRange(c.QueryParam("dateRange")),
	}

	groups, err := h.engine.Search(c.Request().Context(), query, filters)
	if err != nil {
		return fromDomainError(err, "search", query)
	}

	resp := searchResponse{
		Query:    query,
		Searched: groups != nil,
		Results:  make([]searchGroup, 0, len(groups)),
	}
	for _, g := range groups {
		sg := searchGroup{Group: g, Matches: make([]searchMatch, 0, len(g.Matches))}
		for _, m := range g.Matches {
			sg.Matches = append(sg.Matches, searchMatch{
				Match: m,
				Spans: search.HighlightSpans(m.Text, query),
			})
		}
		resp.Results = append(resp.Results, sg)
	}
	return c.JSON(http.StatusOK, resp)
}
