package rules

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	registry = make(map[string]Rule)
	mu       sync.RWMutex
)

// Register adds r to the registry. It panics on a duplicate ID or kind.
func Register(r Rule) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[r.ID()]; exists {
		panic(fmt.Sprintf("rule %s already registered", r.ID()))
	}
	for _, existing := range registry {
		if existing.Kind() == r.Kind() {
			panic(fmt.Sprintf("rule kind %s already registered by %s", r.Kind(), existing.ID()))
		}
	}
	registry[r.ID()] = r
}

// List returns every registered rule in kind order.
func List() []Rule {
	mu.RLock()
	defer mu.RUnlock()
	return listLocked()
}

func listLocked() []Rule {
	rules := make([]Rule, 0, len(registry))
	for _, r := range registry {
		rules = append(rules, r)
	}
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].Kind() < rules[j].Kind()
	})
	return rules
}

// Resolve selects rules by a comma-separated list of IDs. An empty selector
// selects every rule.
func Resolve(selector string) ([]Rule, error) {
	mu.RLock()
	defer mu.RUnlock()

	if strings.TrimSpace(selector) == "" {
		return listLocked(), nil
	}

	var selected []Rule
	for _, id := range strings.Split(selector, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		r, ok := registry[id]
		if !ok {
			return nil, fmt.Errorf("rule not found: %s", id)
		}
		selected = append(selected, r)
	}
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Kind() < selected[j].Kind()
	})
	return selected, nil
}
