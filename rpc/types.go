package rpc

// jsonRPCResponse is the envelope shared by all rpc responses.
type jsonRPCResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Error   *rawNodeError `json:"error"`
}

// rawNodeError is the remote error object of a failed call.
type rawNodeError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// BlockCountResponse returns data from 'getblockcount'.
type BlockCountResponse struct {
	jsonRPCResponse
	Result int64 `json:"result"`
}

// EventsResponse returns data from 'getevents'.
type EventsResponse struct {
	jsonRPCResponse
	Result []*RawEvent `json:"result"`
}

// RawEvent is one event record as the nodes report it. Kind-specific
// fields are all present on the wire; conversion picks the relevant ones.
type RawEvent struct {
	TxHash     string `json:"txhash"`
	BlockIndex uint64 `json:"blockindex"`
	BlockTime  uint64 `json:"blocktime"`
	LogIndex   uint   `json:"logindex"`
	Kind       string `json:"kind"`
	From       string `json:"from"`
	To         string `json:"to"`
	Account    string `json:"account"`
	Amount     string `json:"amount"`
	Reason     string `json:"reason"`
	Role       string `json:"role"`
	Status     bool   `json:"status"`
	By         string `json:"by"`
}

// AccountStateResponse returns data from 'getaccountstate'.
type AccountStateResponse struct {
	jsonRPCResponse
	Result *RawAccountState `json:"result"`
}

// RawAccountState is the remote view of one account.
type RawAccountState struct {
	Address     string   `json:"address"`
	Balance     string   `json:"balance"`
	Whitelisted bool     `json:"whitelisted"`
	Roles       []string `json:"roles"`
}

// PauseStatusResponse returns data from 'getpausestatus'.
type PauseStatusResponse struct {
	jsonRPCResponse
	Result *RawPauseStatus `json:"result"`
}

// RawPauseStatus is the remote compliance switch state.
type RawPauseStatus struct {
	Paused bool `json:"paused"`
}

// MetadataResponse returns data from 'getassetmetadata'.
type MetadataResponse struct {
	jsonRPCResponse
	Result *RawMetadata `json:"result"`
}

// RawMetadata is the remote asset metadata document.
type RawMetadata struct {
	CommodityType     string `json:"commodity_type"`
	Unit              string `json:"unit"`
	TotalQuantity     string `json:"total_quantity"`
	StorageLocation   string `json:"storage_location"`
	CertificationHash string `json:"certification_hash"`
	CreatedAt         uint64 `json:"created_at"`
	UpdatedAt         uint64 `json:"updated_at"`
}

// SubmitResponse returns data from 'sendoperation'.
type SubmitResponse struct {
	jsonRPCResponse
	Result *RawSubmitResult `json:"result"`
}

// RawSubmitResult acknowledges an accepted operation.
type RawSubmitResult struct {
	TxHash string `json:"txhash"`
}

// ReceiptResponse returns data from 'getreceipt'.
type ReceiptResponse struct {
	jsonRPCResponse
	Result *RawReceipt `json:"result"`
}

// RawReceipt is the confirmation record of a landed operation.
type RawReceipt struct {
	TxHash     string `json:"txhash"`
	BlockIndex uint64 `json:"blockindex"`
}
