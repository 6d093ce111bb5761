package entity

// ChainFamily names the upstream API shape an adapter speaks.
type ChainFamily string

const (
	// FamilyAddressMap is a provider answering with an object keyed by address (blockchain.info).
	FamilyAddressMap ChainFamily = "addressmap"
	// FamilyAccountList is a provider answering with a positional list of account/balance objects (etherscan).
	FamilyAccountList ChainFamily = "accountlist"
	// FamilyEVMRPC is a plain EVM JSON-RPC node queried with eth_getBalance.
	FamilyEVMRPC ChainFamily = "evmrpc"
)

// ChainDefinition describes how balances for one coin symbol are looked up.
type ChainDefinition struct {
	Symbol              string      `json:"symbol" yaml:"symbol"`
	Name                string      `json:"name" yaml:"name"`
	Family              ChainFamily `json:"family" yaml:"family"`
	Endpoint            string      `json:"endpoint" yaml:"endpoint"`
	APIKey              string      `json:"-" yaml:"apiKey"`
	Decimals            int32       `json:"decimals" yaml:"decimals"` // atomic units per display unit, as a power of ten
	MaxAddressesPerCall int         `json:"maxAddressesPerCall,omitempty" yaml:"maxAddressesPerCall"`
	SingleFallback      bool        `json:"singleFallback,omitempty" yaml:"singleFallback"`
}
