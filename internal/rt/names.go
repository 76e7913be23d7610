package rt

import "golang.org/x/text/unicode/norm"

// MemberName is the canonical (NFC) form of a member or package name. Every
// namespace key goes through it, so a composed and a decomposed spelling of
// the same name bind one member.
func MemberName(name string) string {
	return norm.NFC.String(name)
}
