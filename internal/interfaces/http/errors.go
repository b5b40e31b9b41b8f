package httpinterface

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pasta-science/marketd/internal/core/application/auth"
	"github.com/pasta-science/marketd/internal/core/application/pubsub"
	"github.com/pasta-science/marketd/internal/core/domain"
	"github.com/pasta-science/marketd/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

var (
	ErrMissingSession = errors.New("missing session, sign in first")
	ErrNotAdmin       = errors.New("operation restricted to admins")
	ErrInvalidBody    = errors.New("invalid request body")
	ErrInvalidParam   = errors.New("invalid request parameter")
)

type errorGroup struct {
	status int
	errors []error
}

var errorGroups = []errorGroup{
	{
		status: http.StatusNotFound,
		errors: []error{
			domain.ErrListingNotFound,
			domain.ErrDerivativeNotFound,
			ports.ErrSubscriptionNotFound,
		},
	},
	{
		status: http.StatusForbidden,
		errors: []error{
			domain.ErrListingZeroFeeFromBeneficiary,
			domain.ErrListingCallerIsBeneficiary,
			domain.ErrListingCallerNotAllowed,
			ErrNotAdmin,
		},
	},
	{
		status: http.StatusConflict,
		errors: []error{domain.ErrListingAlreadyProprietary},
	},
	{
		status: http.StatusUnauthorized,
		errors: []error{ErrMissingSession, auth.ErrInvalidSession},
	},
	{
		status: http.StatusBadRequest,
		errors: []error{
			domain.ErrListingInvalidContractAddress,
			domain.ErrListingInvalidBeneficiary,
			domain.ErrListingInvalidCaller,
			domain.ErrListingInvalidPrice,
			domain.ErrListingInvalidFee,
			domain.ErrListingInvalidProprietaryValue,
			domain.ErrListingInvalidAmount,
			domain.ErrDerivativeInvalidURI,
			domain.ErrDerivativeInvalidOwner,
			domain.ErrDerivativeInvalidContractAddress,
			auth.ErrInvalidAddress,
			auth.ErrInvalidChain,
			auth.ErrInvalidNetwork,
			auth.ErrMissingSignature,
			auth.ErrUnknownChallenge,
			auth.ErrProvider,
			pubsub.ErrUnknownEvent,
			ports.ErrInvalidSubscription,
			ErrInvalidBody,
			ErrInvalidParam,
		},
	},
}

func statusForError(err error) int {
	for _, g := range errorGroups {
		for _, e := range g.errors {
			if errors.Is(err, e) {
				return g.status
			}
		}
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("http: internal error")
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{msg})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("http: failed to write response")
	}
}
