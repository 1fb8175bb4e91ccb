package models

// ProtectionSettings is the typed view of a branch protection payload.
//
// Only the fields monitored by the policy are kept, each oriented so that true
// is the hardened setting. A sub-object absent from the payload leaves its
// field false, the "off" setting: an absent allow_force_pushes object does not
// count as force pushes being blocked.
type ProtectionSettings struct {
	Branch                         string
	RequiredApprovingReviewCount   int
	RequiredSignatures             bool
	EnforceAdmins                  bool
	BlockForcePushes               bool
	BlockDeletions                 bool
	RequiredConversationResolution bool
}
