package ports

import "context"

const (
	NetworkEvm    = "evm"
	NetworkSolana = "solana"
)

// AuthMessageRequest holds the info required by the wallet-auth provider to
// build a sign-in message for an account.
type AuthMessageRequest struct {
	Address   string
	Chain     string
	Network   string
	Domain    string
	Statement string
	URI       string
	// Timeout of the challenge in seconds.
	Timeout int
}

// AuthMessage is the message to be signed by the wallet.
type AuthMessage struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	ProfileID string `json:"profileId"`
}

// AuthVerifyRequest contains a signed sign-in message.
type AuthVerifyRequest struct {
	Message   string
	Signature string
	Network   string
}

// AuthProfile is the verified identity returned by the wallet-auth provider.
type AuthProfile struct {
	ID             string `json:"id"`
	Domain         string `json:"domain"`
	ChainID        string `json:"chainId"`
	Address        string `json:"address"`
	Statement      string `json:"statement"`
	URI            string `json:"uri"`
	ExpirationTime string `json:"expirationTime,omitempty"`
	NotBefore      string `json:"notBefore,omitempty"`
	Version        string `json:"version"`
	Nonce          string `json:"nonce"`
	ProfileID      string `json:"profileId"`
}

// AuthProvider defines the methods of an external wallet-auth service.
type AuthProvider interface {
	// RequestMessage returns a sign-in message for the given account.
	RequestMessage(ctx context.Context, req AuthMessageRequest) (*AuthMessage, error)
	// Verify checks the signature of a sign-in message and returns the profile
	// of its signer.
	Verify(ctx context.Context, req AuthVerifyRequest) (*AuthProfile, error)
}
