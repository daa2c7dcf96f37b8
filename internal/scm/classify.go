package scm

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// IconProvider resolves the icon for a resource URI. Lookups are expected
// to succeed under normal operation; any failure aborts the classification
// that requested them.
type IconProvider interface {
	Icon(ctx context.Context, uri string) (string, error)
}

// Classify partitions a flat change set into the fixed, ordered resource
// groups the panel renders:
//
//   - conflicted & unstaged        → Merged Changes
//   - conflicted & staged         → dropped (a conflicted path renders once)
//   - staged, non-conflicted      → Staged changes
//   - unstaged, non-conflicted    → Changes
//
// Empty buckets are omitted; bucket order is always Staged, Unstaged,
// Merge. Within a group, resources are ordered by base name
// (case-insensitive collation), full path breaking ties. Icon lookups for
// all resources run concurrently and are gathered before the groups are
// returned: one failed lookup fails the whole classification rather than
// producing partially decorated groups.
func Classify(ctx context.Context, changes []FileChange, icons IconProvider) ([]*ResourceGroup, error) {
	var staged, unstaged, merge []*Resource

	for _, change := range changes {
		if change.Status == Conflicted {
			if change.Staged {
				continue
			}
			merge = append(merge, newResource(change, GroupMerge))
			continue
		}
		if change.Staged {
			staged = append(staged, newResource(change, GroupStaged))
		} else {
			unstaged = append(unstaged, newResource(change, GroupUnstaged))
		}
	}

	groups := make([]*ResourceGroup, 0, 3)
	for _, bucket := range []struct {
		id        GroupID
		resources []*Resource
	}{
		{GroupStaged, staged},
		{GroupUnstaged, unstaged},
		{GroupMerge, merge},
	} {
		if len(bucket.resources) == 0 {
			continue
		}
		sortResources(bucket.resources)
		groups = append(groups, &ResourceGroup{
			ID:        bucket.id,
			Label:     bucket.id.Label(),
			Resources: bucket.resources,
		})
	}

	if err := resolveIcons(ctx, groups, icons); err != nil {
		return nil, err
	}
	return groups, nil
}

func newResource(change FileChange, group GroupID) *Resource {
	return &Resource{
		URI:        change.URI,
		Group:      group,
		Change:     change,
		Decoration: DecorationFor(change.Status, change.Staged),
	}
}

// sortResources orders by base name, full URI as tiebreaker. A collator is
// created per call; collators are not safe for concurrent use and two
// classifications may overlap.
func sortResources(resources []*Resource) {
	col := collate.New(language.Und, collate.IgnoreCase)
	sort.Slice(resources, func(i, j int) bool {
		a, b := resources[i], resources[j]
		if c := col.CompareString(a.Name(), b.Name()); c != 0 {
			return c < 0
		}
		return a.URI < b.URI
	})
}

// resolveIcons fans out one lookup per resource and gathers them all
// before returning. The shared errgroup context cancels the remaining
// lookups as soon as one fails.
func resolveIcons(ctx context.Context, groups []*ResourceGroup, icons IconProvider) error {
	if icons == nil {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, group := range groups {
		for _, res := range group.Resources {
			g.Go(func() error {
				icon, err := icons.Icon(ctx, res.URI)
				if err != nil {
					return err
				}
				res.Decoration.Icon = icon
				return nil
			})
		}
	}
	return g.Wait()
}
