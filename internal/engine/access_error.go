package engine

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v81/github"

	"ghsecaudit/internal/data/models"
	"ghsecaudit/internal/fetcher"
	"ghsecaudit/internal/report"
)

// newAccessError folds a repository-scoped fetch failure into the report form.
// Without verbose, request URLs are kept out of the message.
func newAccessError(operation string, repo models.Repository, err error, verbose bool) *report.AccessError {
	ae := &report.AccessError{
		Operation:  operation,
		Resource:   defaultResource(operation, repo),
		StatusCode: fetcher.StatusCode(err),
		Message:    presentAccessError(err, verbose),
	}
	var fe *fetcher.FetchError
	if errors.As(err, &fe) && fe.Resource != "" {
		ae.Resource = fe.Resource
	}
	return ae
}

func defaultResource(operation string, repo models.Repository) string {
	switch operation {
	case report.OperationBranchProtection:
		return fmt.Sprintf("repos/%s/branches/%s/protection", repo.Slug(), repo.Branch())
	case report.OperationReviewerFile:
		return fmt.Sprintf("repos/%s/contents", repo.Slug())
	default:
		return "repos/" + repo.Slug()
	}
}

func presentAccessError(err error, verbose bool) string {
	if err == nil {
		return "unknown error"
	}

	full := err.Error()
	if verbose {
		return full
	}

	// Prefer structured GitHub error types to avoid leaking full request URLs.
	var er *github.ErrorResponse
	if errors.As(err, &er) {
		msg := strings.TrimSpace(er.Message)
		status := ""
		if er.Response != nil {
			status = fmt.Sprintf("%d %s", er.Response.StatusCode, http.StatusText(er.Response.StatusCode))
		}
		if msg == "" {
			msg = "GitHub API request failed"
		}
		if status != "" {
			return fmt.Sprintf("GitHub API request failed (%s): %s", status, msg)
		}
		return fmt.Sprintf("GitHub API request failed: %s", msg)
	}

	var fe *fetcher.FetchError
	if errors.As(err, &fe) {
		inner := "GitHub API request failed"
		if fe.Err != nil {
			inner = strings.TrimSpace(fe.Err.Error())
			if scrubbed := scrubGitHubRequestFromErrorString(inner); scrubbed != "" {
				inner = scrubbed
			}
		}
		switch fe.Kind {
		case fetcher.KindDecode:
			return "GitHub API returned an unexpected payload: " + inner
		case fetcher.KindTransient:
			if fe.Attempts > 1 {
				return fmt.Sprintf("GitHub API unavailable after %d attempts: %s", fe.Attempts, inner)
			}
			return "GitHub API unavailable: " + inner
		default:
			return inner
		}
	}

	// Fallback: best-effort scrub to avoid printing full request details.
	if scrubbed := scrubGitHubRequestFromErrorString(strings.TrimSpace(full)); scrubbed != "" {
		return scrubbed
	}
	return "GitHub API request failed"
}

func scrubGitHubRequestFromErrorString(s string) string {
	// Typical go-github error format:
	//   GET https://api.github.com/...: 403 Some message. [..]
	// We want to drop the leading "GET https://...: " part.
	methods := []string{"GET ", "POST ", "PUT ", "PATCH ", "DELETE "}
	for _, m := range methods {
		if strings.HasPrefix(s, m) {
			if i := strings.Index(s, "://"); i >= 0 {
				if j := strings.Index(s[i:], ": "); j >= 0 {
					return strings.TrimSpace(s[i+j+2:])
				}
			}
			if j := strings.Index(s, ": "); j >= 0 {
				return strings.TrimSpace(s[j+2:])
			}
			break
		}
	}
	return ""
}
