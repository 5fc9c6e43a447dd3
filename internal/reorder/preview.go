package reorder

import (
	"slices"
	"strings"

	"github.com/h0rv/imgboard/internal/domain"
)

// DerivePreview builds one entry per item of the preview group, in order.
// A missing preview group, or one without a component, yields an empty list.
func DerivePreview(state domain.State, previewGroupID int) []domain.PreviewEntry {
	pos := state.FindGroup(previewGroupID)
	if pos < 0 {
		return []domain.PreviewEntry{}
	}
	return Entries(state.Groups, state.Groups[pos].Items())
}

// Entries describes items against a set of groups.
// The section is the title of the first group (in order) holding an equal item,
// so a URL still present in a source group resolves to that source rather than
// to the preview group itself. Items found in no group get a nil section.
func Entries(groups []domain.Group, items []domain.Item) []domain.PreviewEntry {
	entries := make([]domain.PreviewEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, domain.PreviewEntry{
			Section: sectionOf(groups, item),
			Value:   ItemKey(item),
		})
	}
	return entries
}

func sectionOf(groups []domain.Group, item domain.Item) *string {
	for _, g := range groups {
		if slices.Contains(g.Items(), item) {
			title := g.Title
			return &title
		}
	}
	return nil
}

// ItemKey extracts the short key of an image URL: the last path segment,
// cut at the first underscore.
//
//	https://host/upload/v1/banner-1_ocdzvu.png -> banner-1
func ItemKey(item domain.Item) string {
	s := string(item)
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.Index(s, "_"); i >= 0 {
		s = s[:i]
	}
	return s
}
