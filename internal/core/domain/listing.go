package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// MaxFeeBasisPoints is the highest fee a listing can charge.
	MaxFeeBasisPoints = 9999

	basisPointsUnit = 10000
)

// Listing defines the entity data structure for a derivative token posted on
// the marketplace.
type Listing struct {
	// ID is the opaque identifier of the listing.
	ID string
	// ContractAddress is the address of the token contract.
	ContractAddress string
	// TokenID identifies the token within its contract.
	TokenID uint64
	// Price in decimal string format.
	Price string
	// Beneficiary is the nominal owner of the listed token.
	Beneficiary string
	// Seller is the account that posted the listing.
	Seller string
	// Fee expressed in basis points.
	FeeBasisPoints uint32
	// Proprietary is set once someone other than the beneficiary takes over
	// the listing.
	Proprietary bool
	// Proprietor is the account that made the listing proprietary.
	Proprietor string
	// ProprietaryValue is the value offered by the proprietor, in decimal
	// string format.
	ProprietaryValue string
	CreatedAt        int64
	UpdatedAt        int64
}

// ListingFilter restricts the listings returned by a repository. Zero values
// are ignored.
type ListingFilter struct {
	ContractAddress string
	Beneficiary     string
	Proprietary     *bool
}

// NewListing returns a new, not proprietary, listing for the given token if
// the caller is allowed to post it.
func NewListing(
	caller, contractAddress string, tokenID uint64,
	price decimal.Decimal, beneficiary string, feeBasisPoints uint32,
) (*Listing, error) {
	caller = NormalizeAddress(caller)
	contractAddress = NormalizeAddress(contractAddress)
	beneficiary = NormalizeAddress(beneficiary)

	if !IsValidAddress(caller) {
		return nil, ErrListingInvalidCaller
	}
	if !IsValidAddress(contractAddress) {
		return nil, ErrListingInvalidContractAddress
	}
	if !IsValidAddress(beneficiary) {
		return nil, ErrListingInvalidBeneficiary
	}
	if !isValidPrice(price) {
		return nil, ErrListingInvalidPrice
	}
	if !isValidFee(int64(feeBasisPoints)) {
		return nil, ErrListingInvalidFee
	}

	now := time.Now().Unix()
	listing := &Listing{
		ID:              uuid.New().String(),
		ContractAddress: contractAddress,
		TokenID:         tokenID,
		Price:           price.String(),
		Beneficiary:     beneficiary,
		Seller:          caller,
		FeeBasisPoints:  feeBasisPoints,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if !listing.CanBeListedBy(caller) {
		return nil, ErrListingZeroFeeFromBeneficiary
	}
	return listing, nil
}

// IsProprietary returns whether the listing has been taken over.
func (l *Listing) IsProprietary() bool {
	return l.Proprietary
}

// GetPrice returns the listing price as decimal.
func (l *Listing) GetPrice() decimal.Decimal {
	p, _ := decimal.NewFromString(l.Price)
	return p
}

// GetProprietaryValue returns the value paid to make the listing
// proprietary, or zero if it's not.
func (l *Listing) GetProprietaryValue() decimal.Decimal {
	if !l.IsProprietary() {
		return decimal.Zero
	}
	v, _ := decimal.NewFromString(l.ProprietaryValue)
	return v
}

// CanBeListedBy returns whether the caller can post the listing. A listing
// without fee can't be posted by its own beneficiary.
func (l *Listing) CanBeListedBy(caller string) bool {
	return l.FeeBasisPoints > 0 || !SameAddress(caller, l.Beneficiary)
}

// CanBeMadeProprietaryBy returns whether the caller is allowed to take over
// the listing.
func (l *Listing) CanBeMadeProprietaryBy(caller string) bool {
	return !SameAddress(caller, l.Beneficiary)
}

// CanBeRepricedBy returns whether the caller is allowed to change the price
// of the listing.
func (l *Listing) CanBeRepricedBy(caller string) bool {
	return SameAddress(caller, l.Beneficiary) || SameAddress(caller, l.Seller)
}

// MakeProprietary transfers the ownership of the listing to the caller for
// the given value.
func (l *Listing) MakeProprietary(caller string, value decimal.Decimal) error {
	caller = NormalizeAddress(caller)
	if !IsValidAddress(caller) {
		return ErrListingInvalidCaller
	}
	if !l.CanBeMadeProprietaryBy(caller) {
		return ErrListingCallerIsBeneficiary
	}
	if l.IsProprietary() {
		return ErrListingAlreadyProprietary
	}
	if !isValidPrice(value) {
		return ErrListingInvalidProprietaryValue
	}

	l.Proprietary = true
	l.Proprietor = caller
	l.ProprietaryValue = value.String()
	l.UpdatedAt = time.Now().Unix()
	return nil
}

// ChangePrice updates the price of a listing still owned by its beneficiary.
func (l *Listing) ChangePrice(caller string, price decimal.Decimal) error {
	caller = NormalizeAddress(caller)
	if !IsValidAddress(caller) {
		return ErrListingInvalidCaller
	}
	if l.IsProprietary() {
		return ErrListingAlreadyProprietary
	}
	if !l.CanBeRepricedBy(caller) {
		return ErrListingCallerNotAllowed
	}
	if !isValidPrice(price) {
		return ErrListingInvalidPrice
	}

	l.Price = price.String()
	l.UpdatedAt = time.Now().Unix()
	return nil
}

// Fee returns the cut taken by the listing over the given amount.
func (l *Listing) Fee(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, ErrListingInvalidAmount
	}
	return amount.
		Mul(decimal.NewFromInt(int64(l.FeeBasisPoints))).
		Div(decimal.NewFromInt(basisPointsUnit)), nil
}

func isValidPrice(price decimal.Decimal) bool {
	return price.GreaterThan(decimal.Zero)
}

func isValidFee(basisPoint int64) bool {
	return basisPoint >= 0 && basisPoint <= MaxFeeBasisPoints
}
