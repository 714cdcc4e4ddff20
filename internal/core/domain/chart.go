package domain

// ChartEntry is a seed row for the chart of accounts.
type ChartEntry struct {
	Code          string
	Name          string
	Category      AccountCategory
	NormalBalance NormalBalance
	ParentCode    string
}

// DefaultChart is the cooperative chart of accounts loaded on first start.
// The loan-loss allowance is a contra asset carried on the credit side.
var DefaultChart = []ChartEntry{
	{"1-1000", "Current Assets", Asset, NormalDebit, ""},
	{"1-1100", "Cash on Hand", Asset, NormalDebit, "1-1000"},
	{"1-1200", "Cash in Bank", Asset, NormalDebit, "1-1000"},
	{"1-1300", "Member Loans Receivable", Asset, NormalDebit, "1-1000"},
	{"1-1310", "Allowance for Loan Losses", Asset, NormalCredit, "1-1300"},
	{"1-1400", "Merchandise Inventory", Asset, NormalDebit, "1-1000"},
	{"1-2000", "Fixed Assets", Asset, NormalDebit, ""},
	{"1-2100", "Equipment", Asset, NormalDebit, "1-2000"},
	{"2-1000", "Liabilities", Liability, NormalCredit, ""},
	{"2-1100", "Member Voluntary Savings", Liability, NormalCredit, "2-1000"},
	{"2-1200", "Accounts Payable", Liability, NormalCredit, "2-1000"},
	{"3-1000", "Equity", Equity, NormalCredit, ""},
	{"3-1100", "Member Principal Savings", Equity, NormalCredit, "3-1000"},
	{"3-1200", "Retained Surplus", Equity, NormalCredit, "3-1000"},
	{"4-1000", "Revenue", Revenue, NormalCredit, ""},
	{"4-1100", "Loan Interest Income", Revenue, NormalCredit, "4-1000"},
	{"4-1200", "Loan Administration Fees", Revenue, NormalCredit, "4-1000"},
	{"4-2100", "Store Sales", Revenue, NormalCredit, "4-1000"},
	{"5-1000", "Expenses", Expense, NormalDebit, ""},
	{"5-1100", "Cost of Goods Sold", Expense, NormalDebit, "5-1000"},
	{"5-2100", "Loan Loss Provision Expense", Expense, NormalDebit, "5-1000"},
}

// Account builds an active account from the seed row.
func (e ChartEntry) Account(audit AuditFields) Account {
	return Account{
		Code:          e.Code,
		Name:          e.Name,
		Category:      e.Category,
		NormalBalance: e.NormalBalance,
		ParentCode:    e.ParentCode,
		IsActive:      true,
		AuditFields:   audit,
	}
}
