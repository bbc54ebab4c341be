package domain

import "errors"

var (
	// ErrAuthorizationMismatch is returned if a derived identity does not match
	// the authority recorded on an account, or if an account is not owned by
	// the expected identity.
	ErrAuthorizationMismatch = errors.New("authority does not match the derived or expected identity")
	// ErrAssetTypeMismatch is returned if an account holds a different mint
	// than the one expected.
	ErrAssetTypeMismatch = errors.New("account mint does not match the expected asset type")
	// ErrInsufficientBalance is returned if a token account cannot cover the
	// requested amount.
	ErrInsufficientBalance = errors.New("insufficient token balance")
	// ErrNonEmptyAccountOnClose is returned when trying to close a token
	// account that still holds tokens.
	ErrNonEmptyAccountOnClose = errors.New("cannot close a non-empty token account")

	// ErrEscrowNotFound ...
	ErrEscrowNotFound = errors.New("escrow not found")
	// ErrAccountNotFound ...
	ErrAccountNotFound = errors.New("token account not found")
	// ErrMintNotFound ...
	ErrMintNotFound = errors.New("mint not found")
	// ErrSettlementNotFound ...
	ErrSettlementNotFound = errors.New("settlement not found")
	// ErrAccountAlreadyInUse is returned when creating an account at an
	// address that is already taken.
	ErrAccountAlreadyInUse = errors.New("account already in use")
	// ErrDecimalsMismatch is returned if the decimals given for a checked
	// transfer differ from those declared by the mint.
	ErrDecimalsMismatch = errors.New("decimals do not match the mint's declared decimals")
	// ErrMissingSignature is returned if an authority required by an
	// operation did not sign it.
	ErrMissingSignature = errors.New("missing required signature")
	// ErrSignatureAlreadyProcessed is returned if a signed request is
	// submitted again after it was committed.
	ErrSignatureAlreadyProcessed = errors.New("signature already processed")
	// ErrInsufficientLamports is returned if a payer cannot cover a rent
	// deposit or a transfer.
	ErrInsufficientLamports = errors.New("insufficient lamports")
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrInvalidEscrowData is returned when decoding malformed escrow data.
	ErrInvalidEscrowData = errors.New("invalid escrow account data")
	// ErrSubscriptionNotFound ...
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrMissingTopic ...
	ErrMissingTopic = errors.New("missing subscription topic")
	// ErrInvalidEndpoint is returned if a webhook endpoint is not a valid URI.
	ErrInvalidEndpoint = errors.New("invalid webhook endpoint")
)
