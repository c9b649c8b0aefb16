package auth

import (
	"encoding/json"
	"fmt"
)

// PrincipalKind tags which identity a session holds
type PrincipalKind uint8

const (
	KindNone PrincipalKind = iota
	KindUser
	KindAdmin
)

func (k PrincipalKind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindAdmin:
		return "admin"
	default:
		return "none"
	}
}

// Principal is the identity attached to a session: nobody, one user or one
// admin. The zero value is the anonymous principal. Fields are unexported so
// a principal can only be built through the constructors below.
type Principal struct {
	kind PrincipalKind
	id   int64
	name string // user's display name or admin's username
}

// Anonymous returns the principal of a request without a session
func Anonymous() Principal {
	return Principal{}
}

func UserPrincipal(id int64, name string) Principal {
	return Principal{kind: KindUser, id: id, name: name}
}

func AdminPrincipal(id int64, username string) Principal {
	return Principal{kind: KindAdmin, id: id, name: username}
}

func (p Principal) Kind() PrincipalKind { return p.kind }
func (p Principal) IsUser() bool        { return p.kind == KindUser }
func (p Principal) IsAdmin() bool       { return p.kind == KindAdmin }
func (p Principal) IsAnonymous() bool   { return p.kind == KindNone }

// ID is the user_id or admin_id. Zero for the anonymous principal.
func (p Principal) ID() int64 { return p.id }

func (p Principal) Name() string { return p.name }

// principalRecord is the stored form of a Principal
type principalRecord struct {
	Kind string `json:"kind"`
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (p Principal) MarshalJSON() ([]byte, error) {
	return json.Marshal(principalRecord{Kind: p.kind.String(), ID: p.id, Name: p.name})
}

func (p *Principal) UnmarshalJSON(data []byte) error {
	var rec principalRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	switch rec.Kind {
	case "user":
		*p = UserPrincipal(rec.ID, rec.Name)
	case "admin":
		*p = AdminPrincipal(rec.ID, rec.Name)
	case "none":
		*p = Anonymous()
	default:
		return fmt.Errorf("unknown principal kind %q", rec.Kind)
	}
	return nil
}
