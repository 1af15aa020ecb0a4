// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package shell

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"codeberg.org/webko/site/core/cms"
)

// NavItemChild is one entry of a dropdown built from child pages.
type NavItemChild struct {
	Label       string
	Href        string
	Description *string
	Icon        *string
}

// DropdownChildren maps the parent page id of a dropdown to its entries.
type DropdownChildren map[cms.PageID][]NavItemChild

// ResolveDropdowns lists the child pages of every top-level dropdown whose
// entries come from an expanded parent page.
//
// Dropdowns with a missing or unexpanded parent page are skipped. The
// lookups run concurrently and the first failure fails the whole resolution.
// A nil navigation yields an empty map.
func ResolveDropdowns(
	ctx context.Context,
	src Source,
	nav *cms.Navigation,
	locale, defaultLocale string,
) (DropdownChildren, error) {
	result := make(DropdownChildren)

	parents := dropdownParents(nav)
	if len(parents) == 0 {
		return result, nil
	}

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)

	for _, parentID := range parents {
		g.Go(func() error {
			pages, err := src.GetChildPagesByParentID(gctx, parentID, locale, defaultLocale)
			if err != nil {
				return fmt.Errorf("resolve dropdown %d: %w", parentID, err)
			}

			children := make([]NavItemChild, 0, len(pages))
			for _, page := range pages {
				children = append(children, toNavItemChild(page))
			}

			mu.Lock()
			result[parentID] = children
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}

// dropdownParents returns the distinct parent page ids of the qualifying
// dropdowns, in navigation order.
func dropdownParents(nav *cms.Navigation) []cms.PageID {
	if nav == nil {
		return nil
	}

	var (
		parents []cms.PageID
		seen    = make(map[cms.PageID]struct{})
	)

	for _, item := range nav.Items {
		if item.Type != cms.NavItemDropdown || item.DropdownSource != cms.DropdownChildren {
			continue
		}

		if !item.ParentPage.Expanded() {
			continue
		}

		id := item.ParentPage.ID
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		parents = append(parents, id)
	}

	return parents
}

func toNavItemChild(page cms.ChildPage) NavItemChild {
	child := NavItemChild{
		Label: page.Title,
		Href:  page.Pathname,
	}

	if page.ServiceData != nil {
		child.Description = page.ServiceData.Description
		child.Icon = page.ServiceData.Icon
	}

	return child
}
