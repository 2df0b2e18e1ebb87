package web

import (
	"net/url"
	"strings"

	"election-dashboard/models"
)

// selectionFromQuery reads state, party and candidate from q. A missing
// party or candidate key selects everything; a key that is present with
// only empty values selects nothing. The dashboard form always submits an
// empty hidden value so that clearing a multi-select reaches the server.
func selectionFromQuery(q url.Values) models.Selection {
	return models.Selection{
		State:      strings.TrimSpace(q.Get("state")),
		Parties:    multiValue(q, "party"),
		Candidates: multiValue(q, "candidate"),
	}
}

func multiValue(q url.Values, key string) []string {
	vals, present := q[key]
	if !present {
		return []string{models.SelectAll}
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// selectionQuery encodes sel back into query parameters, the inverse of
// selectionFromQuery.
func selectionQuery(sel models.Selection) url.Values {
	q := url.Values{}
	q.Set("state", sel.State)
	q["party"] = append([]string{""}, sel.Parties...)
	q["candidate"] = append([]string{""}, sel.Candidates...)
	return q
}
