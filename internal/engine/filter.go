package engine

import (
	"path"
	"strings"

	"ghsecaudit/internal/config"
	"ghsecaudit/internal/data/models"
)

// FilterRepos applies the targeting policy to discovered repositories,
// preserving discovery order.
func FilterRepos(repos []models.Repository, target config.Target) []models.Repository {
	filtered := make([]models.Repository, 0, len(repos))

	visibility := strings.TrimSpace(target.Visibility)
	if visibility == "" {
		visibility = "all"
	}
	archivedPolicy := strings.TrimSpace(target.Archived)
	if archivedPolicy == "" {
		archivedPolicy = "include"
	}
	forksPolicy := strings.TrimSpace(target.Forks)
	if forksPolicy == "" {
		forksPolicy = "include"
	}

	for _, r := range repos {
		// Visibility
		if visibility != "all" && visibility != repoVisibility(r) {
			continue
		}

		if !allowedByPolicy(archivedPolicy, r.Archived) {
			continue
		}
		if !allowedByPolicy(forksPolicy, r.Fork) {
			continue
		}

		// Topics
		if len(target.Topic) > 0 && !matchesAnyTopic(target.Topic, r.Topics) {
			continue
		}

		// If Include is set, must match at least one
		if len(target.Include) > 0 && !matchesAnyPattern(target.Include, r.Slug(), r.Name) {
			continue
		}

		// If Exclude is set, must not match any
		if len(target.Exclude) > 0 && matchesAnyPattern(target.Exclude, r.Slug(), r.Name) {
			continue
		}

		filtered = append(filtered, r)
	}

	if target.MaxRepos > 0 && len(filtered) > target.MaxRepos {
		filtered = filtered[:target.MaxRepos]
	}

	return filtered
}

func allowedByPolicy(policy string, flagged bool) bool {
	switch policy {
	case "exclude":
		return !flagged
	case "only":
		return flagged
	default:
		return true
	}
}

func repoVisibility(r models.Repository) string {
	if v := strings.TrimSpace(r.Visibility); v != "" {
		return strings.ToLower(v)
	}
	if r.Private {
		return "private"
	}
	return "public"
}

func matchesAnyTopic(requiredTopics, repoTopics []string) bool {
	for _, required := range requiredTopics {
		required = strings.TrimSpace(required)
		if required == "" {
			continue
		}
		for _, rt := range repoTopics {
			if required == rt {
				return true
			}
		}
	}
	return false
}

func matchesAnyPattern(patterns []string, fullName, repoName string) bool {
	for _, p := range patterns {
		if matchPattern(p, fullName, repoName) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, fullName, repoName string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return false
	}
	// If the pattern includes an owner component (contains '/'), match against full name.
	// Otherwise match against repo name only so patterns like "*-service" work with org scope.
	if strings.Contains(pattern, "/") {
		matched, _ := path.Match(pattern, fullName)
		return matched
	}
	matched, _ := path.Match(pattern, repoName)
	return matched
}
