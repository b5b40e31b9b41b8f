package domain

import "errors"

// Listing errors
var (
	// ErrListingInvalidContractAddress is returned if the token contract is not
	// a valid address.
	ErrListingInvalidContractAddress = errors.New("invalid token contract address")
	// ErrListingInvalidBeneficiary is returned if the beneficiary is not a
	// valid address.
	ErrListingInvalidBeneficiary = errors.New("invalid beneficiary address")
	// ErrListingInvalidCaller is returned if the identity of the caller is
	// missing or is not a valid address.
	ErrListingInvalidCaller = errors.New("invalid caller address")
	// ErrListingInvalidPrice is returned if the price of a listing is not
	// strictly positive.
	ErrListingInvalidPrice = errors.New("listing price must be greater than zero")
	// ErrListingInvalidFee is returned if the fee is out of the [0, 9999] range
	// of basis points.
	ErrListingInvalidFee = errors.New("fee must be in range [0, 9999] basis points")
	// ErrListingZeroFeeFromBeneficiary is returned if the beneficiary tries to
	// list a token without charging any fee.
	ErrListingZeroFeeFromBeneficiary = errors.New("beneficiary can't list a token with zero fee")
	// ErrListingCallerIsBeneficiary is returned if the beneficiary tries to make
	// its own listing proprietary.
	ErrListingCallerIsBeneficiary = errors.New("beneficiary can't make its own listing proprietary")
	// ErrListingAlreadyProprietary is returned when trying to change a listing
	// that's no longer owned by its beneficiary.
	ErrListingAlreadyProprietary = errors.New("listing is already proprietary")
	// ErrListingInvalidProprietaryValue is returned if the value for making a
	// listing proprietary is not strictly positive.
	ErrListingInvalidProprietaryValue = errors.New("proprietary value must be greater than zero")
	// ErrListingCallerNotAllowed is returned if someone other than beneficiary
	// or seller tries to change the price of a listing.
	ErrListingCallerNotAllowed = errors.New("only beneficiary or seller can change the listing price")
	// ErrListingInvalidAmount is returned when previewing fees for a negative
	// amount.
	ErrListingInvalidAmount = errors.New("amount must not be negative")
	// ErrListingNotFound ...
	ErrListingNotFound = errors.New("listing not found")
)

// Derivative errors
var (
	// ErrDerivativeInvalidURI is returned if the metadata uri of a derivative is
	// not an absolute URI.
	ErrDerivativeInvalidURI = errors.New("derivative uri must be a valid absolute URI")
	// ErrDerivativeInvalidOwner ...
	ErrDerivativeInvalidOwner = errors.New("invalid derivative owner address")
	// ErrDerivativeInvalidContractAddress ...
	ErrDerivativeInvalidContractAddress = errors.New("invalid derivative contract address")
	// ErrDerivativeNotFound ...
	ErrDerivativeNotFound = errors.New("derivative not found")
)
