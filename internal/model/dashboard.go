package model

type WalletCard struct {
	Balance     float64 `yaml:"balance" json:"balance"`
	Label       string  `yaml:"label" json:"label"`
	Description string  `yaml:"description" json:"description"`
}

type WalletCards struct {
	Normal    WalletCard `yaml:"normal" json:"normal"`
	Emergency WalletCard `yaml:"emergency" json:"emergency"`
	Cashback  WalletCard `yaml:"cashback" json:"cashback"`
}

type MonthlyFlow struct {
	Month   string  `yaml:"month" json:"month"`
	Income  float64 `yaml:"income" json:"income"`
	Expense float64 `yaml:"expense" json:"expense"`
}

// ChartSlice is one labelled slice of a pie chart. Percentage is derived, never stored.
type ChartSlice struct {
	Name       string  `yaml:"name" json:"name"`
	Value      float64 `yaml:"value" json:"value"`
	Color      string  `yaml:"color" json:"color"`
	Percentage float64 `yaml:"-" json:"percentage"`
}

type InvestmentOption struct {
	ID             string `yaml:"id" json:"id"`
	Name           string `yaml:"name" json:"name"`
	Description    string `yaml:"description" json:"description"`
	ExpectedReturn string `yaml:"expected_return" json:"expected_return"`
	Risk           string `yaml:"risk" json:"risk"`
}

type DashboardTransaction struct {
	ID          int     `yaml:"id" json:"id"`
	Date        string  `yaml:"date" json:"date"`
	Description string  `yaml:"description" json:"description"`
	Amount      float64 `yaml:"amount" json:"amount"`
	Category    string  `yaml:"category" json:"category"`
}

type NormalDashboard struct {
	TotalBalance       float64                `yaml:"total_balance" json:"total_balance"`
	MonthlyIncome      float64                `yaml:"monthly_income" json:"monthly_income"`
	MonthlyExpenses    float64                `yaml:"monthly_expenses" json:"monthly_expenses"`
	Savings            float64                `yaml:"savings" json:"savings"`
	Wallets            WalletCards            `yaml:"wallets" json:"wallets"`
	IncomeVsExpense    []MonthlyFlow          `yaml:"income_vs_expense" json:"income_vs_expense"`
	ExpensesByCategory []ChartSlice           `yaml:"expenses_by_category" json:"expenses_by_category"`
	InvestmentOptions  []InvestmentOption     `yaml:"investment_options" json:"investment_options"`
	Transactions       []DashboardTransaction `yaml:"transactions" json:"transactions"`
}

type BalanceSheet struct {
	Total     float64      `yaml:"total" json:"total"`
	Breakdown []ChartSlice `yaml:"breakdown" json:"breakdown"`
}

type AssetLiabilityPoint struct {
	Month       string  `yaml:"month" json:"month"`
	Assets      float64 `yaml:"assets" json:"assets"`
	Liabilities float64 `yaml:"liabilities" json:"liabilities"`
}

type SuperDashboard struct {
	NormalDashboard      `yaml:",inline"`
	NetWorth             float64               `yaml:"net_worth" json:"net_worth"`
	Assets               BalanceSheet          `yaml:"assets" json:"assets"`
	Liabilities          BalanceSheet          `yaml:"liabilities" json:"liabilities"`
	FinancialHealthScore float64               `yaml:"financial_health_score" json:"financial_health_score"`
	RiskProfile          string                `yaml:"risk_profile" json:"risk_profile"`
	AssetVsLiability     []AssetLiabilityPoint `yaml:"asset_vs_liability" json:"asset_vs_liability"`
}

type AllocationSlice struct {
	Name       string  `yaml:"name" json:"name"`
	Percentage float64 `yaml:"percentage" json:"percentage"`
	Color      string  `yaml:"color" json:"color"`
}

type InvestmentRecommendation struct {
	Instrument string `yaml:"instrument" json:"instrument"`
	Allocation string `yaml:"allocation" json:"allocation"`
	Rationale  string `yaml:"rationale" json:"rationale"`
}

type InvestmentPlan struct {
	RiskProfile     string                     `yaml:"risk_profile" json:"risk_profile"`
	Allocation      []AllocationSlice          `yaml:"allocation" json:"allocation"`
	Recommendations []InvestmentRecommendation `yaml:"recommendations" json:"recommendations"`
}

type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}
