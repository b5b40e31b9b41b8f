package httpinterface

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pasta-science/marketd/internal/core/domain"
	"github.com/shopspring/decimal"
)

type listingInfo struct {
	ID               string `json:"id"`
	ContractAddress  string `json:"contract_address"`
	TokenID          uint64 `json:"token_id"`
	Price            string `json:"price"`
	Beneficiary      string `json:"beneficiary"`
	Seller           string `json:"seller"`
	FeeBasisPoints   uint32 `json:"fee_basis_points"`
	Proprietary      bool   `json:"proprietary"`
	Proprietor       string `json:"proprietor,omitempty"`
	ProprietaryValue string `json:"proprietary_value,omitempty"`
	CreatedAt        int64  `json:"created_at"`
	UpdatedAt        int64  `json:"updated_at"`
}

func toListingInfo(l domain.Listing) listingInfo {
	return listingInfo{
		ID:               l.ID,
		ContractAddress:  l.ContractAddress,
		TokenID:          l.TokenID,
		Price:            l.Price,
		Beneficiary:      l.Beneficiary,
		Seller:           l.Seller,
		FeeBasisPoints:   l.FeeBasisPoints,
		Proprietary:      l.Proprietary,
		Proprietor:       l.Proprietor,
		ProprietaryValue: l.ProprietaryValue,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

type addListingRequest struct {
	ContractAddress string          `json:"contract_address"`
	TokenID         uint64          `json:"token_id"`
	Price           decimal.Decimal `json:"price"`
	Beneficiary     string          `json:"beneficiary"`
	FeeBasisPoints  uint32          `json:"fee_basis_points"`
}

type proprietaryRequest struct {
	Value decimal.Decimal `json:"value"`
}

type priceRequest struct {
	Price decimal.Decimal `json:"price"`
}

type listingsResponse struct {
	Listings []listingInfo `json:"listings"`
}

type feeResponse struct {
	ListingID string `json:"listing_id"`
	Amount    string `json:"amount"`
	Fee       string `json:"fee"`
}

func (s *service) handleAddListing(w http.ResponseWriter, r *http.Request) {
	var req addListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, ErrInvalidBody)
		return
	}

	caller := sessionFromContext(r.Context()).Address
	listing, err := s.opts.MarketSvc.AddListing(
		r.Context(), caller, req.ContractAddress, req.TokenID, req.Price,
		req.Beneficiary, req.FeeBasisPoints,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toListingInfo(*listing))
}

func (s *service) handleListListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ListingFilter{
		ContractAddress: q.Get("contract"),
		Beneficiary:     q.Get("beneficiary"),
	}
	if v := q.Get("proprietary"); v != "" {
		proprietary, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, ErrInvalidParam)
			return
		}
		filter.Proprietary = &proprietary
	}
	page, err := pageFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	listings, err := s.opts.MarketSvc.ListListings(r.Context(), filter, page)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := listingsResponse{make([]listingInfo, 0, len(listings))}
	for _, l := range listings {
		resp.Listings = append(resp.Listings, toListingInfo(l))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *service) handleGetListing(w http.ResponseWriter, r *http.Request) {
	listing, err := s.opts.MarketSvc.GetListing(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingInfo(*listing))
}

func (s *service) handleMakeProprietary(w http.ResponseWriter, r *http.Request) {
	var req proprietaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, ErrInvalidBody)
		return
	}

	caller := sessionFromContext(r.Context()).Address
	listing, err := s.opts.MarketSvc.MakeProprietary(
		r.Context(), caller, mux.Vars(r)["id"], req.Value,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingInfo(*listing))
}

func (s *service) handleUpdateListingPrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, ErrInvalidBody)
		return
	}

	caller := sessionFromContext(r.Context()).Address
	listing, err := s.opts.MarketSvc.UpdateListingPrice(
		r.Context(), caller, mux.Vars(r)["id"], req.Price,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingInfo(*listing))
}

func (s *service) handlePreviewFee(w http.ResponseWriter, r *http.Request) {
	amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
	if err != nil {
		writeError(w, ErrInvalidParam)
		return
	}

	id := mux.Vars(r)["id"]
	fee, err := s.opts.MarketSvc.PreviewFee(r.Context(), id, amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feeResponse{id, amount.String(), fee.String()})
}

func pageFromQuery(r *http.Request) (*domain.Page, error) {
	q := r.URL.Query()
	if q.Get("page") == "" && q.Get("size") == "" {
		return nil, nil
	}

	number, size := 0, 0
	var err error
	if v := q.Get("page"); v != "" {
		if number, err = strconv.Atoi(v); err != nil {
			return nil, ErrInvalidParam
		}
	}
	if v := q.Get("size"); v != "" {
		if size, err = strconv.Atoi(v); err != nil {
			return nil, ErrInvalidParam
		}
	}
	return domain.NewPage(number, size), nil
}
