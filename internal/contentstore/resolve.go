package contentstore

import "strings"

// Resolve maps a content reference to a fetchable HTTP URL against the given
// gateway. It accepts three shapes:
//
//   - http(s) URLs pass through unchanged
//   - ipfs://<cid> references resolve to <gateway>/ipfs/<cid>
//   - bare CIDs resolve to <gateway>/ipfs/<cid>
//
// An empty reference resolves to an empty string. Resolve is idempotent: a
// resolved URL resolves to itself.
func Resolve(ref string, gatewayURL string) string {
	if ref == "" {
		return ""
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}

	gateway := strings.TrimSuffix(gatewayURL, "/")

	if cid, ok := strings.CutPrefix(ref, "ipfs://"); ok {
		return gateway + "/ipfs/" + strings.TrimPrefix(cid, "/")
	}

	return gateway + "/ipfs/" + ref
}
