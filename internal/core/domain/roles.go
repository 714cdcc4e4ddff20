package domain

// AccountRole names an account the core posts to without the caller choosing
// it, e.g. the cash account debited by a deposit.
type AccountRole string

const (
	RoleCash              AccountRole = "CASH"
	RoleLoanReceivable    AccountRole = "LOAN_RECEIVABLE"
	RoleLoanLossAllowance AccountRole = "LOAN_LOSS_ALLOWANCE"
	RoleInventory         AccountRole = "INVENTORY"
	RoleMemberSavings     AccountRole = "MEMBER_SAVINGS"
	RolePayable           AccountRole = "PAYABLE"
	RoleInterestIncome    AccountRole = "INTEREST_INCOME"
	RoleAdminFeeIncome    AccountRole = "ADMIN_FEE_INCOME"
	RoleSalesRevenue      AccountRole = "SALES_REVENUE"
	RoleCOGS              AccountRole = "COGS"
	RoleProvisionExpense  AccountRole = "PROVISION_EXPENSE"
)

// AllAccountRoles lists every role a mapping must cover.
var AllAccountRoles = []AccountRole{
	RoleCash, RoleLoanReceivable, RoleLoanLossAllowance, RoleInventory,
	RoleMemberSavings, RolePayable, RoleInterestIncome, RoleAdminFeeIncome,
	RoleSalesRevenue, RoleCOGS, RoleProvisionExpense,
}

// AccountMapping binds roles to chart codes.
type AccountMapping map[AccountRole]string

// DefaultAccountMapping points every role at the default chart.
func DefaultAccountMapping() AccountMapping {
	return AccountMapping{
		RoleCash:              "1-1100",
		RoleLoanReceivable:    "1-1300",
		RoleLoanLossAllowance: "1-1310",
		RoleInventory:         "1-1400",
		RoleMemberSavings:     "2-1100",
		RolePayable:           "2-1200",
		RoleInterestIncome:    "4-1100",
		RoleAdminFeeIncome:    "4-1200",
		RoleSalesRevenue:      "4-2100",
		RoleCOGS:              "5-1100",
		RoleProvisionExpense:  "5-2100",
	}
}
