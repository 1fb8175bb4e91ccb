package rules

import "fmt"

// Kind enumerates the monitored protection rules. The declaration order is the
// order findings are emitted in.
type Kind int

const (
	KindMinApprovals Kind = iota
	KindSignedCommits
	KindEnforceAdmins
	KindDisallowForcePush
	KindDisallowDeletions
	KindRequireConversationResolution
)

// Kinds lists every kind in emission order.
var Kinds = []Kind{
	KindMinApprovals,
	KindSignedCommits,
	KindEnforceAdmins,
	KindDisallowForcePush,
	KindDisallowDeletions,
	KindRequireConversationResolution,
}

var kindNames = map[Kind]string{
	KindMinApprovals:                  "MinApprovals",
	KindSignedCommits:                 "SignedCommits",
	KindEnforceAdmins:                 "EnforceAdmins",
	KindDisallowForcePush:             "DisallowForcePush",
	KindDisallowDeletions:             "DisallowDeletions",
	KindRequireConversationResolution: "RequireConversationResolution",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("unknown rule kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown rule kind %q", text)
}
