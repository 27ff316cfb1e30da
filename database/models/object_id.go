package models

import (
	"crypto/rand"
	"encoding/hex"
)

// object id prefixes, as exposed through the public API
const (
	ObjectIDPrefixOrganization        = "org_"
	ObjectIDPrefixProject             = "proj_"
	ObjectIDPrefixAPIKey              = "key_"
	ObjectIDPrefixZoomOAuthApp        = "zoa_"
	ObjectIDPrefixZoomOAuthConnection = "zoc_"
	ObjectIDPrefixWebhookSubscription = "wh_"
)

// NewObjectID returns a prefixed public identifier like zoc_0d6f2a93...
// Row UUIDs never leave the database layer, clients only ever see these.
func NewObjectID(prefix string) string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return prefix + hex.EncodeToString(buf)
}
