package checks

import (
	"fmt"
	"strconv"

	"ghsecaudit/internal/data/models"
	"ghsecaudit/internal/rules"
)

// MinApprovingReviews is the smallest compliant approving-review count.
const MinApprovingReviews = 2

type MinApprovals struct{}

func (r *MinApprovals) Kind() rules.Kind {
	return rules.KindMinApprovals
}

func (r *MinApprovals) ID() string {
	return "protection-min-approvals"
}

func (r *MinApprovals) Title() string {
	return "PR Approvals Required"
}

func (r *MinApprovals) Description() string {
	return fmt.Sprintf("Verifies that the default branch requires at least %d approving reviews before a pull request can be merged. A branch protection without required pull request reviews counts as 0.", MinApprovingReviews)
}

func (r *MinApprovals) Expected() string {
	return fmt.Sprintf("%d+", MinApprovingReviews)
}

func (r *MinApprovals) Evaluate(p models.ProtectionSettings) (string, bool) {
	return strconv.Itoa(p.RequiredApprovingReviewCount), p.RequiredApprovingReviewCount >= MinApprovingReviews
}

func init() {
	rules.Register(&MinApprovals{})
}
