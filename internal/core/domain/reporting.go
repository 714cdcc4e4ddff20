package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountTotals is the debit/credit activity of one account over some range.
type AccountTotals struct {
	AccountCode   string          `json:"accountCode"`
	AccountName   string          `json:"accountName"`
	Category      AccountCategory `json:"category"`
	NormalBalance NormalBalance   `json:"normalBalance"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
}

// Net returns the balance of the totals on the account's normal side.
func (t AccountTotals) Net() decimal.Decimal {
	net, err := SignedAmount(t.NormalBalance, t.Debit, t.Credit)
	if err != nil {
		return t.Debit.Sub(t.Credit)
	}
	return net
}

// TrialBalanceRow represents a single row in a trial balance report.
type TrialBalanceRow struct {
	AccountTotals
	Balance decimal.Decimal `json:"balance"`
}

// TrialBalance lists every account's posted totals as of a date.
type TrialBalance struct {
	AsOf        *time.Time        `json:"asOf,omitempty"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	Balanced    bool              `json:"balanced"`
}

// LedgerPosting is one line of an account ledger with the balance after it.
type LedgerPosting struct {
	JournalID      string          `json:"journalID"`
	EntryDate      time.Time       `json:"entryDate"`
	Description    string          `json:"description"`
	LineNo         int             `json:"lineNo"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
	CreatedAt      time.Time       `json:"-"`
}

// AccountLedger is the ordered postings of one account within a range.
type AccountLedger struct {
	Account        Account         `json:"account"`
	From           *time.Time      `json:"from,omitempty"`
	To             *time.Time      `json:"to,omitempty"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Postings       []LedgerPosting `json:"postings"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// AccountAmount represents an account with its net amount for financial reports.
type AccountAmount struct {
	AccountCode string          `json:"accountCode"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
}

// IncomeStatement is revenue less expenses over a period.
type IncomeStatement struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	Revenue       []AccountAmount `json:"revenue"`
	Expenses      []AccountAmount `json:"expenses"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
}

// BalanceSheet reports assets against liabilities and equity. Revenue and
// expense balances not yet closed are carried as CurrentEarnings inside equity.
type BalanceSheet struct {
	AsOf             time.Time       `json:"asOf"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	CurrentEarnings  decimal.Decimal `json:"currentEarnings"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	Balanced         bool            `json:"balanced"`
}

// CashFlowActivity groups cash movements in the statement of cash flows.
type CashFlowActivity string

const (
	OperatingActivity CashFlowActivity = "OPERATING"
	InvestingActivity CashFlowActivity = "INVESTING"
	FinancingActivity CashFlowActivity = "FINANCING"
)

// CashLine is one line of a posted entry that touches a cash account, with
// the account's category for counterpart classification.
type CashLine struct {
	JournalID   string          `json:"journalID"`
	EntryDate   time.Time       `json:"entryDate"`
	Description string          `json:"description"`
	AccountCode string          `json:"accountCode"`
	Category    AccountCategory `json:"category"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// CashFlowItem is the net cash effect of one entry.
type CashFlowItem struct {
	JournalID   string           `json:"journalID"`
	EntryDate   time.Time        `json:"entryDate"`
	Description string           `json:"description"`
	Activity    CashFlowActivity `json:"activity"`
	Amount      decimal.Decimal  `json:"amount"`
}

// CashFlowStatement is a direct-method cash flow statement.
type CashFlowStatement struct {
	From        time.Time       `json:"from"`
	To          time.Time       `json:"to"`
	OpeningCash decimal.Decimal `json:"openingCash"`
	Operating   decimal.Decimal `json:"operating"`
	Investing   decimal.Decimal `json:"investing"`
	Financing   decimal.Decimal `json:"financing"`
	NetChange   decimal.Decimal `json:"netChange"`
	ClosingCash decimal.Decimal `json:"closingCash"`
	Items       []CashFlowItem  `json:"items"`
}
