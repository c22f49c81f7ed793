package runtime

import "testing"

func TestEnvironmentGetSearchesParentChain(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", Integer(1))
	child := global.Extend()
	child.Define("b", Integer(2))

	if v, err := child.Get("a"); err != nil || v != Integer(1) {
		t.Fatalf("Get(a) = (%v, %v), want (1, nil)", v, err)
	}
	if v, err := child.Get("b"); err != nil || v != Integer(2) {
		t.Fatalf("Get(b) = (%v, %v), want (2, nil)", v, err)
	}
	if _, err := global.Get("b"); err == nil {
		t.Fatalf("expected an error looking up a child binding from the parent")
	}
}

func TestEnvironmentAssignUpdatesTheDefiningScope(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", Integer(1))
	child := global.Extend()

	if err := child.Assign("a", Integer(2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := global.Get("a"); v != Integer(2) {
		t.Fatalf("Assign through a child scope did not update the defining scope: got %v", v)
	}
	if _, ok := child.values["a"]; ok {
		t.Fatalf("Assign must not create a new binding in the child scope")
	}
}

func TestEnvironmentAssignUndefinedNameFails(t *testing.T) {
	env := NewEnvironment(nil)
	if err := env.Assign("missing", Integer(1)); err == nil {
		t.Fatalf("expected an error assigning to an undefined name")
	}
}

func TestEnvironmentDefineShadowsParent(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", Integer(1))
	child := global.Extend()
	child.Define("a", Integer(2))

	if v, _ := child.Get("a"); v != Integer(2) {
		t.Fatalf("got %v, want the shadowing binding 2", v)
	}
	if v, _ := global.Get("a"); v != Integer(1) {
		t.Fatalf("shadowing in the child leaked into the parent: got %v", v)
	}
}

func TestEnvironmentSnapshotIsACopy(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("a", Integer(1))

	snap := env.Snapshot()
	snap["a"] = Integer(99)

	if v, _ := env.Get("a"); v != Integer(1) {
		t.Fatalf("mutating a Snapshot affected the live environment: got %v", v)
	}
}

func TestEnvironmentKeysAreSorted(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("b", Integer(1))
	env.Define("a", Integer(2))
	env.Define("c", Integer(3))

	keys := env.Keys()
	want := []string{"a", "b", "c"}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("got %v, want %v", keys, want)
		}
	}
}
