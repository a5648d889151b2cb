package signal

// Signal names produced by the detectors. External collaborators may
// supply additional names (e.g. credit utilization) through the
// behavioral summary assembler.
const (
	// Subscription detector. Always present; zero-valued when nothing recurs.
	SubscriptionCount     = "subscription_count"
	RecurringMonthlySpend = "recurring_monthly_spend"
	SubscriptionShare     = "subscription_share"

	// Savings detector.
	HasSavingsAccounts  = "has_savings_accounts"
	TotalSavingsBalance = "total_savings_balance"
	SavingsNetInflow    = "savings_net_inflow"
	SavingsGrowthRate   = "savings_growth_rate"
	EmergencyFundMonths = "emergency_fund_months"

	// Income detector.
	HasRegularIncome       = "has_regular_income"
	IncomeFrequency        = "income_frequency"
	IncomeVariability      = "income_variability"
	IncomeTransactionCount = "income_transaction_count"
	AverageIncomeAmount    = "average_income_amount"
	CashFlowBufferMonths   = "cash_flow_buffer_months"
)
