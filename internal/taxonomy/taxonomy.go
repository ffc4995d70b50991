// Package taxonomy holds the fixed account and category sets that every
// transaction is checked against before any device input is sent.
package taxonomy

// Taxonomy is the set of names the finance app knows about. Lookups are
// exact and case-sensitive because labels are matched on screen verbatim.
type Taxonomy struct {
	Accounts          []string `mapstructure:"accounts"`
	IncomeCategories  []string `mapstructure:"income_categories"`
	ExpenseCategories []string `mapstructure:"expense_categories"`
}

// Default returns the built-in taxonomy. A config file may replace any of
// the three lists wholesale.
func Default() Taxonomy {
	return Taxonomy{
		Accounts: []string{
			"Cash",
			"Fixed Deposit",
			"HDFC - Special Gold",
			"HDFC - UPI",
			"HSBC CC",
			"ICICI Sapphiro CC",
			"Infinity Tata Neu CC",
			"Mutual Funds",
			"Other Investments",
			"Other Pending",
			"Parents",
			"SBI Bank Account",
			"SBI Elite CC",
			"Splitwise",
		},
		IncomeCategories: []string{
			"Bonus", "Capital Gains", "Others",
			"Refunds", "Reward", "Salary",
		},
		ExpenseCategories: []string{
			"Beauty", "Bills", "Clothing",
			"Education", "Electronics", "Entertainment",
			"Food", "Gifts", "Groceries",
			"Health", "Home", "Insurance",
			"Others", "Parents", "Pet",
			"Rent", "Snacks", "Social",
			"Sports", "Tax", "Transportation",
			"Vacation",
		},
	}
}

// HasAccount reports whether name is a known account.
func (t Taxonomy) HasAccount(name string) bool {
	return contains(t.Accounts, name)
}

// HasIncomeCategory reports whether name is a known income category.
func (t Taxonomy) HasIncomeCategory(name string) bool {
	return contains(t.IncomeCategories, name)
}

// HasExpenseCategory reports whether name is a known expense category.
func (t Taxonomy) HasExpenseCategory(name string) bool {
	return contains(t.ExpenseCategories, name)
}

func contains(list []string, name string) bool {
	for _, s := range list {
		if s == name {
			return true
		}
	}
	return false
}
