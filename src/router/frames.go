package router

import (
	"encoding/json"
	"errors"

	"price-relay/src/helpers"
	"price-relay/src/models"
)

// -----------------------------------------------------------------------------
// Frame classification
// -----------------------------------------------------------------------------

type FrameKind int

const (
	// FrameCommand is any text frame that is not handled as a login.
	FrameCommand FrameKind = iota
	FrameLogin
)

// Frame is the result of classifying one inbound text payload.
type Frame struct {
	Kind    FrameKind
	Role    Role
	Login   models.MLoginRequest
	Payload []byte
}

// Classify decides how a text payload is handled. Only the first text frame of
// a connection may be a login; a payload that does not parse as one falls
// through to command routing instead of failing the connection.
func Classify(payload []byte, awaitingLogin bool) Frame {
	if awaitingLogin {
		if login, err := ParseLogin(payload); err == nil {
			return Frame{Kind: FrameLogin, Role: ResolveRole(login.Username), Login: login, Payload: payload}
		}
	}
	return Frame{Kind: FrameCommand, Payload: payload}
}

// -----------------------------------------------------------------------------
// Payload parsing
// -----------------------------------------------------------------------------

var (
	errMissingUsername = errors.New("missing username field")
	errMissingSymbol   = errors.New("missing symbol field")
	errMissingPrice    = errors.New("missing price field")
)

// ParseLogin decodes a LoginRequest; the username key must be present.
func ParseLogin(payload []byte) (models.MLoginRequest, error) {
	var raw struct {
		Username *string `json:"username"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return models.MLoginRequest{}, helpers.NewProtocolError("malformed login request", err)
	}
	if raw.Username == nil {
		return models.MLoginRequest{}, helpers.NewProtocolError("malformed login request", errMissingUsername)
	}
	return models.MLoginRequest{Username: *raw.Username}, nil
}

// ParsePriceUpdate decodes a PriceUpdate; both fields must be present.
func ParsePriceUpdate(payload []byte) (models.MPriceUpdate, error) {
	var raw struct {
		Symbol *string `json:"symbol"`
		Price  *string `json:"price"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return models.MPriceUpdate{}, helpers.NewProtocolError("malformed price update", err)
	}
	if raw.Symbol == nil {
		return models.MPriceUpdate{}, helpers.NewProtocolError("malformed price update", errMissingSymbol)
	}
	if raw.Price == nil {
		return models.MPriceUpdate{}, helpers.NewProtocolError("malformed price update", errMissingPrice)
	}
	return models.MPriceUpdate{Symbol: *raw.Symbol, Price: *raw.Price}, nil
}

// ParseLoginResponse decodes the hub's answer to a login.
func ParseLoginResponse(payload []byte) (models.MLoginResponse, error) {
	var resp models.MLoginResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return models.MLoginResponse{}, helpers.NewProtocolError("malformed login response", err)
	}
	return resp, nil
}
