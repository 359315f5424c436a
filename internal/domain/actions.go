package domain

// Action enumerates the write commands of the back office. Transport layers use it to
// name monitored calls; BackOffice exposes one method per action.
type Action int

const (
	ActionCreateCustomer Action = iota + 1
	ActionUpdateCustomer
	ActionDeleteCustomer
	ActionCreateAccountType
	ActionUpdateAccountType
	ActionDeleteAccountType
	ActionCreateAccount
	ActionUpdateAccount
	ActionDeleteAccount
	ActionGenerateIBAN
	ActionPostOperation
	ActionRunInterest
	ActionUpdateParameter
)

var actionNames = map[Action]string{
	ActionCreateCustomer:    "Create customer",
	ActionUpdateCustomer:    "Update customer",
	ActionDeleteCustomer:    "Delete customer",
	ActionCreateAccountType: "Create account type",
	ActionUpdateAccountType: "Update account type",
	ActionDeleteAccountType: "Delete account type",
	ActionCreateAccount:     "Create account",
	ActionUpdateAccount:     "Update account",
	ActionDeleteAccount:     "Delete account",
	ActionGenerateIBAN:      "Generate IBAN",
	ActionPostOperation:     "New operation",
	ActionRunInterest:       "Interest counting",
	ActionUpdateParameter:   "Update parameter",
}

// String returns the name recorded in the activity log.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown action"
}
