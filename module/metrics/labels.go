package metrics

const (
	LabelResource = "resource"
	LabelModifier = "modifier"
)

const (
	ResourceUndefined         = "undefined"
	ResourceAccount           = "account"
	ResourceAccountAuth       = "account_auth"
	ResourceAccountCode       = "account_code"
	ResourceAccountStorage    = "account_storage"
	ResourceAccountVault      = "account_vault"
	ResourceInputNote         = "input_note"
	ResourceOutputNote        = "output_note"
	ResourceNoteScript        = "note_script"
	ResourceTransaction       = "transaction"
	ResourceTransactionScript = "transaction_script"
	ResourceBlockHeader       = "block_header"
	ResourceChainMMRNode      = "chain_mmr_node"
	ResourceSyncState         = "sync_state"
)
