package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fleetproof/fleet-engine/pkg/fleetcore"
)

// ChainClient talks to the arbiter's HTTP surface.
type ChainClient struct {
	baseURL string
	http    *http.Client
}

func NewChainClient(baseURL string) *ChainClient {
	return &ChainClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// TokenData mirrors the chain's /token response.
type TokenData struct {
	EncToken  string           `json:"enc_token"`
	TokenHash fleetcore.Digest `json:"token_hash"`
}

func (c *ChainClient) get(path string) ([]byte, error) {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("chain unreachable: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read chain response: %v", err)
	}
	return body, nil
}

// RSAKey fetches the base-64 RSA public key registered for a fleet.
func (c *ChainClient) RSAKey(gameID, fleetID string) (string, error) {
	q := url.Values{"gameid": {gameID}, "fleetid": {fleetID}}
	body, err := c.get("/key?" + q.Encode())
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Players fetches the fleet ids registered in a game.
func (c *ChainClient) Players(gameID string) ([]string, error) {
	q := url.Values{"gameid": {gameID}}
	body, err := c.get("/players?" + q.Encode())
	if err != nil {
		return nil, err
	}
	var players []string
	if err := json.Unmarshal(body, &players); err != nil {
		return nil, fmt.Errorf("unexpected /players response: %s", body)
	}
	return players, nil
}

// Token fetches the game's current encrypted turn token and commitment.
// The chain answers auxiliary lookups with a diagnostic sentence instead of
// JSON when there is nothing to return.
func (c *ChainClient) Token(gameID string) (*TokenData, error) {
	q := url.Values{"gameid": {gameID}}
	body, err := c.get("/token?" + q.Encode())
	if err != nil {
		return nil, err
	}
	var data TokenData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("no turn token available: %s", body)
	}
	return &data, nil
}

// Submit posts a signed envelope and returns the chain's plain-text verdict.
func (c *ChainClient) Submit(signed *fleetcore.SignedMessage) (string, error) {
	payload, err := json.Marshal(signed)
	if err != nil {
		return "", fmt.Errorf("serialize signed message: %v", err)
	}
	resp, err := c.http.Post(c.baseURL+"/chain", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("error sending signed message: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read chain response: %v", err)
	}
	return string(body), nil
}
