package hotrecharge

// MaxReferenceLength is the provider's limit on the x-agent-reference header.
const MaxReferenceLength = 50

// AuthConfig holds the agent credentials sent with every request.
// AccessCode is the account email used on registration, AccessPassword the
// account password. Reference is an optional initial agent reference; the
// provider rejects references longer than MaxReferenceLength.
type AuthConfig struct {
	accessCode     string
	accessPassword string
	reference      string
}

func NewAuthConfig(accessCode, accessPassword, reference string) (*AuthConfig, error) {
	if err := checkReferenceLimit(reference); err != nil {
		return nil, err
	}

	return &AuthConfig{
		accessCode:     accessCode,
		accessPassword: accessPassword,
		reference:      reference,
	}, nil
}

func (c *AuthConfig) AccessCode() string     { return c.accessCode }
func (c *AuthConfig) AccessPassword() string { return c.accessPassword }
func (c *AuthConfig) Reference() string      { return c.reference }

func (c *AuthConfig) SetAccessCode(accessCode string) {
	c.accessCode = accessCode
}

func (c *AuthConfig) SetAccessPassword(accessPassword string) {
	c.accessPassword = accessPassword
}

// SetReference replaces the stored agent reference. The length invariant is
// re-checked on every update, never silently truncated.
func (c *AuthConfig) SetReference(reference string) error {
	if err := checkReferenceLimit(reference); err != nil {
		return err
	}

	c.reference = reference
	return nil
}

func checkReferenceLimit(reference string) error {
	if len(reference) > MaxReferenceLength {
		return ErrReferenceExceedLimit
	}
	return nil
}
