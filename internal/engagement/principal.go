package engagement

import "fmt"

// Kind 区分两类账号：个人用户和 NGO
type Kind string

const (
	KindUser Kind = "USER"
	KindNgo  Kind = "NGO"
)

// ParseKind accepts the role strings carried in tokens and payment metadata.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindUser:
		return KindUser, nil
	case KindNgo:
		return KindNgo, nil
	}
	return "", fmt.Errorf("unknown principal kind %q", s)
}

// Principal 当前操作者（或被比较者），User 与 Ngo 互斥
type Principal struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`
}

func User(id string) Principal { return Principal{Kind: KindUser, ID: id} }
func Ngo(id string) Principal  { return Principal{Kind: KindNgo, ID: id} }

func (p Principal) IsZero() bool { return p.ID == "" }

func (p Principal) String() string { return string(p.Kind) + ":" + p.ID }

// FromRefs 从存储层的两个可空外键还原 Principal，要求恰好一个非空
func FromRefs(userID, ngoID *string) (Principal, bool) {
	hasUser := userID != nil && *userID != ""
	hasNgo := ngoID != nil && *ngoID != ""
	switch {
	case hasUser && !hasNgo:
		return User(*userID), true
	case hasNgo && !hasUser:
		return Ngo(*ngoID), true
	}
	return Principal{}, false
}

// Refs is the inverse of FromRefs: exactly one of the returned pointers is non-nil.
func (p Principal) Refs() (userID, ngoID *string) {
	id := p.ID
	if p.Kind == KindNgo {
		return nil, &id
	}
	return &id, nil
}

// Column returns the storage column holding this principal's id.
func (p Principal) Column(userColumn, ngoColumn string) string {
	if p.Kind == KindNgo {
		return ngoColumn
	}
	return userColumn
}
