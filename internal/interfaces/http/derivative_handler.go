package httpinterface

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pasta-science/marketd/internal/core/domain"
)

type derivativeInfo struct {
	ContractAddress string `json:"contract_address"`
	TokenID         uint64 `json:"token_id"`
	URI             string `json:"uri"`
	Name            string `json:"name,omitempty"`
	Slug            string `json:"slug"`
	Owner           string `json:"owner"`
	CreatedAt       int64  `json:"created_at"`
}

func toDerivativeInfo(d domain.Derivative) derivativeInfo {
	return derivativeInfo{
		ContractAddress: d.ContractAddress,
		TokenID:         d.TokenID,
		URI:             d.URI,
		Name:            d.Name,
		Slug:            d.Slug,
		Owner:           d.Owner,
		CreatedAt:       d.CreatedAt,
	}
}

type mintRequest struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

type derivativesResponse struct {
	ContractAddress string           `json:"contract_address"`
	Derivatives     []derivativeInfo `json:"derivatives"`
}

func (s *service) handleMintDerivative(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, ErrInvalidBody)
		return
	}

	caller := sessionFromContext(r.Context()).Address
	derivative, err := s.opts.DerivativeSvc.MintDerivative(
		r.Context(), caller, req.URI, req.Name,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDerivativeInfo(*derivative))
}

func (s *service) handleGetDerivative(w http.ResponseWriter, r *http.Request) {
	tokenID, err := strconv.ParseUint(mux.Vars(r)["tokenId"], 10, 64)
	if err != nil {
		writeError(w, ErrInvalidParam)
		return
	}

	derivative, err := s.opts.DerivativeSvc.GetDerivative(r.Context(), tokenID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDerivativeInfo(*derivative))
}

func (s *service) handleListDerivatives(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	derivatives, err := s.opts.DerivativeSvc.ListDerivatives(
		r.Context(), r.URL.Query().Get("owner"), page,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := derivativesResponse{
		ContractAddress: s.opts.DerivativeSvc.ContractAddress(),
		Derivatives:     make([]derivativeInfo, 0, len(derivatives)),
	}
	for _, d := range derivatives {
		resp.Derivatives = append(resp.Derivatives, toDerivativeInfo(d))
	}
	writeJSON(w, http.StatusOK, resp)
}
