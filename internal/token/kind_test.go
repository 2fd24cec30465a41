package token

import (
	"strings"
	"testing"
)

func TestKindStringsAreDistinct(t *testing.T) {
	seen := make(map[string]Kind)
	for k := Invalid; k < numKinds; k++ {
		s := k.String()
		if s == "" || strings.HasPrefix(s, "Kind(") {
			t.Fatalf("kind %d has no text", k)
		}
		if prev, dup := seen[s]; dup {
			t.Fatalf("kinds %d and %d share text %q", prev, k, s)
		}
		seen[s] = k
	}
}

func TestCompoundAssignments(t *testing.T) {
	for k := PlusEq; k <= ShrEq; k++ {
		base, ok := k.BaseOp()
		if !ok || !k.IsAssignOp() {
			t.Fatalf("%s is not a compound assignment", k)
		}
		if base.IsAssignOp() {
			t.Fatalf("%s maps to assignment %s", k, base)
		}
	}
	if _, ok := Eq.BaseOp(); ok {
		t.Fatalf("plain = has no base operator")
	}
	if !Comment.IsTrivia() || Ident.IsTrivia() || !CharLit.IsLiteral() || Keyword.IsLiteral() {
		t.Fatalf("kind classes are wrong")
	}
}
