// Package tx holds the chain-agnostic data model shared by every
// ecosystem: TransferIntent, UnsignedTransaction, SigningPayload,
// SignedTransaction, and NormalisedTransaction (spec.md §3).
package tx

// TokenStandard identifies the token layer a TokenTransfer intent targets.
type TokenStandard string

const (
	StandardERC20           TokenStandard = "ERC20"
	StandardTRC20           TokenStandard = "TRC20"
	StandardSPL             TokenStandard = "SPL"
	StandardIssuedCurrency  TokenStandard = "XRPL_ISSUED_CURRENCY"
)

// Intent is the tagged union spec.md §3 names: NativeTransfer,
// TokenTransfer, ContractCall, ContractDeploy. Amount fields are
// big-integer decimal strings in the native smallest unit — never a
// float — per spec.md §3/§9.
type Intent interface {
	isIntent()
}

// NativeTransfer moves the chain's native asset from one address to
// another.
type NativeTransfer struct {
	From  string
	To    string
	Value string // decimal string, smallest unit (wei/satoshi/sun/drops)
}

func (NativeTransfer) isIntent() {}

// TokenTransfer moves a fungible token balance (ERC-20/TRC-20/SPL).
type TokenTransfer struct {
	From          string
	To            string
	TokenContract string
	Value         string
	Standard      TokenStandard
}

func (TokenTransfer) isIntent() {}

// ContractCall invokes an arbitrary contract/program method.
type ContractCall struct {
	From     string
	Contract string
	Data     []byte
	Value    string // optional; "" means zero
}

func (ContractCall) isIntent() {}

// ContractDeploy deploys new contract bytecode (EVM/TVM only).
type ContractDeploy struct {
	From            string
	Bytecode        []byte
	ConstructorArgs []byte
}

func (ContractDeploy) isIntent() {}
