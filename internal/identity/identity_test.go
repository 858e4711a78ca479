package identity

import "testing"

func TestStatic(t *testing.T) {
	if id, ok := Static(" sam ").CurrentUser(); !ok || id != "sam" {
		t.Errorf("CurrentUser() = (%q, %v), want (sam, true)", id, ok)
	}
	if _, ok := Static("").CurrentUser(); ok {
		t.Error("empty Static should report no user")
	}
}

func TestSession(t *testing.T) {
	s := NewSession("")
	if _, ok := s.CurrentUser(); ok {
		t.Fatal("new session with empty id is signed in")
	}

	s.SignIn("alex")
	if id, ok := s.CurrentUser(); !ok || id != "alex" {
		t.Errorf("after SignIn: (%q, %v)", id, ok)
	}

	s.SignOut()
	if _, ok := s.CurrentUser(); ok {
		t.Error("after SignOut: still signed in")
	}
}
