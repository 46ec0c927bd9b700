package catalog

import (
	"strings"

	"supplymatch/internal"
)

// Category folders whose contents must never be offered as matches.
// Exact names first; the substring rules below catch renamed variants.
var excludedGroupNames = []string{
	"yandex",
	"yandex - корни",
	"кухня",
	"услуги",
	"gonzo gaming - нетка",
	"gonzo gaming-нетка",
	"корни меню",
}

func isExcludedGroupName(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, ex := range excludedGroupNames {
		if n == ex {
			return true
		}
	}
	if strings.Contains(n, "yandex") {
		return true
	}
	if strings.Contains(n, "gonzo gaming") && strings.Contains(n, "нетка") {
		return true
	}
	return false
}

// BuildExclusions seeds the set with excluded groups (untyped entries
// count as groups here) and closes it over the parent hierarchy with a
// fixed-point loop. The iteration cap keeps malformed cyclic
// hierarchies from hanging the build; the result is independent of item
// order and idempotent for a given snapshot.
func BuildExclusions(items []internal.CatalogItem) map[string]struct{} {
	excluded := map[string]struct{}{}
	for _, it := range items {
		if it.Type != internal.TypeItem && isExcludedGroupName(it.Name) {
			excluded[it.ID] = struct{}{}
		}
	}

	for i := 0; i < 20; i++ {
		added := 0
		for _, it := range items {
			if _, ok := excluded[it.ID]; ok {
				continue
			}
			if it.ParentID == "" {
				continue
			}
			if _, ok := excluded[it.ParentID]; ok {
				excluded[it.ID] = struct{}{}
				added++
			}
		}
		if added == 0 {
			break
		}
	}
	return excluded
}
