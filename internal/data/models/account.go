package models

// AccountType distinguishes organization accounts from personal user accounts.
type AccountType string

const (
	AccountOrganization AccountType = "Organization"
	AccountUser         AccountType = "User"
)

// Account is the audited GitHub account. It is looked up once per run.
type Account struct {
	Login string
	Type  AccountType
}

func (a Account) IsOrganization() bool {
	return a.Type == AccountOrganization
}
