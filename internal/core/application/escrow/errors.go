package escrow

import (
	"errors"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

var (
	ErrMissingRepoManager = errors.New("missing repo manager")
	ErrMissingProgramID   = errors.New("missing program id")
)

var failureReasons = []struct {
	err    error
	reason string
}{
	{domain.ErrMissingSignature, "missing_signature"},
	{domain.ErrSignatureAlreadyProcessed, "signature_already_processed"},
	{domain.ErrAuthorizationMismatch, "authorization_mismatch"},
	{domain.ErrAssetTypeMismatch, "asset_type_mismatch"},
	{domain.ErrInsufficientBalance, "insufficient_balance"},
	{domain.ErrInsufficientLamports, "insufficient_lamports"},
	{domain.ErrNonEmptyAccountOnClose, "non_empty_account_on_close"},
	{domain.ErrEscrowNotFound, "escrow_not_found"},
	{domain.ErrAccountNotFound, "account_not_found"},
	{domain.ErrMintNotFound, "mint_not_found"},
	{domain.ErrAccountAlreadyInUse, "account_already_in_use"},
	{domain.ErrDecimalsMismatch, "decimals_mismatch"},
	{domain.ErrInvalidAmount, "invalid_amount"},
}

// failureReason returns the metrics label for the given error.
func failureReason(err error) string {
	for _, r := range failureReasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return "internal"
}
