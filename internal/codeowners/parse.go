// Package codeowners parses CODEOWNERS files and resolves them per repository.
package codeowners

import (
	"strings"

	"ghsecaudit/internal/data/models"
)

// Parse returns the ownership entries of a CODEOWNERS file.
//
// Blank lines, comment lines and section headers ([Section], as written by
// GitLab-style files) are skipped. An inline # starts a comment unless it is
// escaped as \#. A pattern with no owners is kept: it removes ownership for
// the matching paths.
func Parse(content []byte) []models.OwnershipEntry {
	var entries []models.OwnershipEntry

	lineNo := 0
	for raw := range strings.Lines(string(content)) {
		lineNo++
		line := strings.TrimSpace(stripComment(raw))
		if line == "" || isSectionHeader(line) {
			continue
		}

		fields := strings.Fields(line)
		entry := models.OwnershipEntry{
			Line:    lineNo,
			Pattern: strings.ReplaceAll(fields[0], `\#`, "#"),
		}
		if len(fields) > 1 {
			entry.Owners = fields[1:]
		}
		entries = append(entries, entry)
	}
	return entries
}

func stripComment(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] != '#' {
			continue
		}
		if i > 0 && line[i-1] == '\\' {
			continue
		}
		return line[:i]
	}
	return line
}

// isSectionHeader matches "[Section]" and "^[Optional Section][2]" headers.
func isSectionHeader(line string) bool {
	line = strings.TrimPrefix(line, "^")
	if !strings.HasPrefix(line, "[") {
		return false
	}
	end := strings.Index(line, "]")
	if end < 0 {
		return false
	}
	rest := strings.TrimSpace(line[end+1:])
	if strings.HasPrefix(rest, "[") {
		if j := strings.Index(rest, "]"); j >= 0 {
			rest = strings.TrimSpace(rest[j+1:])
		}
	}
	// GitLab allows default owners after the header; they are not entries.
	return rest == "" || strings.HasPrefix(rest, "@")
}

// IsUserOwner reports whether owner names an individual account (@login),
// as opposed to a team (@org/team) or an email address.
func IsUserOwner(owner string) bool {
	if !strings.HasPrefix(owner, "@") || len(owner) < 2 {
		return false
	}
	return !strings.Contains(owner[1:], "/")
}

// OwnerLogin returns the login of a @login owner, or "" for teams and emails.
func OwnerLogin(owner string) string {
	if !IsUserOwner(owner) {
		return ""
	}
	return owner[1:]
}
