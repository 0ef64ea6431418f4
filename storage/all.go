package storage

// All bundles the stores backing one client database.
type All struct {
	Accounts     Accounts
	Auths        Auths
	Notes        Notes
	Transactions Transactions
	Chain        Chain
	StateSync    StateSync
}
