package services

// IdentityKind discriminates the two actor types a request can resolve to.
type IdentityKind string

const (
	IdentityAccount   IdentityKind = "account"
	IdentityAnonymous IdentityKind = "anonymous"
)

// Identity is the resolved actor a request is attributed to: either a
// registered account or an anonymous session.
type Identity struct {
	Kind IdentityKind
	ID   string
}

// ResolveIdentity produces the request identity. An authenticated account
// always wins; otherwise the anonymous session token (assigned by the
// session middleware, so always present) identifies the caller.
func ResolveIdentity(accountID, sessionToken string) Identity {
	if accountID != "" {
		return Identity{Kind: IdentityAccount, ID: accountID}
	}
	return Identity{Kind: IdentityAnonymous, ID: sessionToken}
}

// IsAccount reports whether the identity belongs to a registered account.
func (i Identity) IsAccount() bool {
	return i.Kind == IdentityAccount
}

// UserAndSessionIDs splits the identity into the (userID, sessionID) pair
// the storage layer keys on. Exactly one element is non-empty.
func (i Identity) UserAndSessionIDs() (userID, sessionID string) {
	if i.IsAccount() {
		return i.ID, ""
	}
	return "", i.ID
}
