// Package compat negotiates the Shop-Agent header. Clients declare who
// they are and which API version they speak; the gateway rejects
// requests for versions newer than its own.
package compat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dunglas/httpsfv"
	"golang.org/x/mod/semver"

	"github.com/rajeshmakireddy7036-bot/ShopNest/internal/model"
)

// APIVersion is the gateway's own API version. Clients may request this
// version or any older one.
const APIVersion = "2.1.0"

// HeaderName carries the agent declaration as an RFC 8941 Dictionary,
// e.g. `profile="web";version="2.1.0"`.
const HeaderName = "Shop-Agent"

// Agent is a parsed client declaration.
type Agent struct {
	Profile string
	Version string
}

// ParseShopAgent parses a Shop-Agent header value.
//
// Examples:
//   - profile="web";version="2.1.0"
//   - profile="mcp"                  (version defaults to the gateway's)
func ParseShopAgent(header string) (Agent, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return Agent{}, errors.New("empty Shop-Agent header")
	}

	dict, err := httpsfv.UnmarshalDictionary([]string{header})
	if err != nil {
		return Agent{}, fmt.Errorf("invalid Shop-Agent header: %w", err)
	}

	member, ok := dict.Get("profile")
	if !ok {
		return Agent{}, errors.New("profile key not found in Shop-Agent header")
	}
	item, ok := member.(httpsfv.Item)
	if !ok {
		return Agent{}, errors.New("profile value must be an item")
	}
	profile, ok := item.Value.(string)
	if !ok {
		return Agent{}, errors.New("profile value must be a string")
	}

	agent := Agent{Profile: profile, Version: APIVersion}
	if v, ok := item.Params.Get("version"); ok {
		ver, ok := v.(string)
		if !ok {
			return Agent{}, errors.New("version parameter must be a string")
		}
		agent.Version = ver
	}
	return agent, nil
}

// CheckVersion rejects versions the gateway cannot serve. A client may
// request the gateway's version or any older one.
func CheckVersion(requested string) error {
	rv := normalize(requested)
	if !semver.IsValid(rv) {
		return model.NewValidationError("version", fmt.Sprintf("%q is not a valid version", requested))
	}
	if semver.Compare(rv, normalize(APIVersion)) > 0 {
		return model.NewVersionError(requested, APIVersion)
	}
	return nil
}

// normalize adds the "v" prefix semver parsing needs.
func normalize(v string) string {
	if v == "" {
		return "v0.0.0"
	}
	if v[0] != 'v' {
		return "v" + v
	}
	return v
}

type contextKey struct{}

// defaultAgent applies when no Shop-Agent header is sent; plain HTTP
// clients get the current version.
var defaultAgent = Agent{Profile: "web", Version: APIVersion}

// FromContext returns the agent negotiated for this request.
func FromContext(ctx context.Context) Agent {
	if a, ok := ctx.Value(contextKey{}).(Agent); ok {
		return a
	}
	return defaultAgent
}

// NewContext returns ctx carrying the agent declaration.
func NewContext(ctx context.Context, a Agent) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}
