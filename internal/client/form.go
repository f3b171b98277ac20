package client

import (
	"fmt"

	"github.com/fleetproof/fleet-engine/pkg/fleetcore"
)

// FormData is the browser form submission. Key material stays client-side;
// it only ever travels between the form and this host.
type FormData struct {
	Button      string `form:"button"`
	Pubkey      string `form:"pubkey"`
	Privkey     string `form:"privkey"`
	RSAPubkey   string `form:"rsa_pubkey"`
	RSAPrivkey  string `form:"rsa_privkey"`
	GameID      string `form:"gameid"`
	FleetID     string `form:"fleetid"`
	TargetFleet string `form:"targetfleet"`
	X           string `form:"x"`
	Y           string `form:"y"`
	RX          string `form:"rx"`
	RY          string `form:"ry"`
	Report      string `form:"report"`
	Board       string `form:"board"`
	Random      string `form:"random"`
}

// baseFields extracts and validates the fields every action needs.
func (f *FormData) baseFields() (gameID, fleetID string, board []byte, random string, err error) {
	if f.GameID == "" {
		return "", "", nil, "", fmt.Errorf("you must provide a Game ID")
	}
	if f.FleetID == "" {
		return "", "", nil, "", fmt.Errorf("you must provide a Fleet ID")
	}
	if f.Random == "" {
		return "", "", nil, "", fmt.Errorf("you must provide a Random Seed")
	}
	board, err = fleetcore.ParseBoard(f.Board)
	if err != nil {
		return "", "", nil, "", err
	}
	return f.GameID, f.FleetID, board, f.Random, nil
}

// keyFields extracts the Dilithium2 keypair fields.
func (f *FormData) keyFields() (pub, priv string, err error) {
	if f.Pubkey == "" {
		return "", "", fmt.Errorf("you must provide a Public Key")
	}
	if f.Privkey == "" {
		return "", "", fmt.Errorf("you must provide a Private Key")
	}
	return f.Pubkey, f.Privkey, nil
}

// rsaFields extracts the RSA keypair fields.
func (f *FormData) rsaFields() (pub, priv string, err error) {
	if f.RSAPubkey == "" {
		return "", "", fmt.Errorf("you must provide an RSA Public Key")
	}
	if f.RSAPrivkey == "" {
		return "", "", fmt.Errorf("you must provide an RSA Private Key")
	}
	return f.RSAPubkey, f.RSAPrivkey, nil
}

// firePos parses the shot coordinate fields.
func (f *FormData) firePos() (uint8, error) {
	return fleetcore.ParseCoordinates(f.X, f.Y)
}

// reportPos parses the reported-shot coordinate fields.
func (f *FormData) reportPos() (uint8, error) {
	return fleetcore.ParseCoordinates(f.RX, f.RY)
}
