package amm

// Internal entry points exposed to the external test package.
var (
	SharesForDeposit         = sharesForDeposit
	WithdrawAmountsForShares = withdrawAmountsForShares
	MatchingDeposit          = matchingDeposit
)
