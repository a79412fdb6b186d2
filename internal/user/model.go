package user

// IdentityLength is the fixed length of the caller-chosen identity (a
// phone number in the original deployment).
const IdentityLength = 10

// User is the owning identity for tokens and checks. CheckIDs is the
// back-reference side of the user/check link; its entries are expected to
// match the check records whose owner is this identity.
type User struct {
	Identity       string   `json:"identity"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	PasswordDigest string   `json:"passwordDigest,omitempty"`
	CheckIDs       []string `json:"checkIds"`
	AgreedToTerms  bool     `json:"agreedToTerms"`
}

// CreateInput carries the fields required to register a user.
type CreateInput struct {
	Identity      string
	FirstName     string
	LastName      string
	Password      string
	AgreedToTerms bool
}

// UpdateInput carries the optional profile fields; empty strings mean
// "leave unchanged". At least one must be set.
type UpdateInput struct {
	FirstName string
	LastName  string
	Password  string
}

func (in UpdateInput) empty() bool {
	return in.FirstName == "" && in.LastName == "" && in.Password == ""
}
