package auth

import "errors"

var (
	ErrInvalidAddress   = errors.New("invalid account address")
	ErrInvalidChain     = errors.New("missing chain")
	ErrInvalidNetwork   = errors.New("network must be either evm or solana")
	ErrMissingSignature = errors.New("missing message or signature")
	ErrUnknownChallenge = errors.New("sign-in message not requested or expired")
	ErrInvalidSession   = errors.New("invalid or expired session")
	// ErrProvider wraps any failure of the wallet-auth provider.
	ErrProvider = errors.New("wallet-auth provider error")
)
