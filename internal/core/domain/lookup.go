package domain

// LookupField names the unique attribute a LookupKey addresses.
type LookupField string

const (
	FieldID    LookupField = "id"
	FieldEmail LookupField = "email"
)

// LookupKey addresses a single user record either by id or by email.
// Build one with LookupByID or LookupByEmail.
type LookupKey struct {
	Field LookupField
	Value string
}

// LookupByID addresses a user by its identifier.
func LookupByID(id string) LookupKey {
	return LookupKey{Field: FieldID, Value: id}
}

// LookupByEmail addresses a user by its normalised email.
func LookupByEmail(email string) LookupKey {
	return LookupKey{Field: FieldEmail, Value: NormalizeEmail(email)}
}

// Matches reports whether the key addresses the principal's own record.
func (k LookupKey) Matches(p *Principal) bool {
	if p == nil {
		return false
	}
	switch k.Field {
	case FieldID:
		return p.ID == k.Value
	case FieldEmail:
		return p.Email == k.Value
	}
	return false
}

func (k LookupKey) String() string {
	return string(k.Field) + "=" + k.Value
}
