package ast

// Name is the optional capture name on a Node. The zero value is
// NameNone (unreported); NameAnonymous reports the match under an empty
// name; NameSome(s) reports it under s.
type Name struct {
	set   bool
	value string
}

// NameNone is an unreported, unnamed node.
var NameNone = Name{}

// NameAnonymous reports a match with an empty name.
func NameAnonymous() Name { return Name{set: true, value: ""} }

// NameSome reports a match under the given name.
func NameSome(s string) Name { return Name{set: true, value: s} }

// IsNone reports whether the name is absent (unreported).
func (n Name) IsNone() bool { return !n.set }

// String returns the name's value; only meaningful when !IsNone().
func (n Name) String() string { return n.value }
