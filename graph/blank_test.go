package graph

import "testing"

func TestBlankRegistryAutoIDs(t *testing.T) {
	r := newBlankRegistry()
	first := r.nextAutoID()
	second := r.nextAutoID()
	if first != "autos1" || second != "autos2" {
		t.Fatalf("unexpected auto ids: %s, %s", first, second)
	}
	if !isAutoLabel(first) {
		t.Fatalf("expected %s to match the generated pattern", first)
	}
	for _, label := range []string{"autos", "autosx", "auto1", "autos1_1", "x"} {
		if isAutoLabel(label) {
			t.Errorf("did not expect %q to match the generated pattern", label)
		}
	}
}

func TestBlankRegistryNamedReuse(t *testing.T) {
	r := newBlankRegistry()
	label, renamed := r.resolveNamed("ID")
	if label != "ID" || renamed {
		t.Fatalf("expected ID to be used as-is, got %s (renamed=%v)", label, renamed)
	}
	again, renamed := r.resolveNamed("ID")
	if again != label || renamed {
		t.Fatalf("expected the same label on reuse, got %s", again)
	}
}

func TestBlankRegistryNameHitsGeneratedID(t *testing.T) {
	r := newBlankRegistry()
	auto := r.nextAutoID()
	label, renamed := r.resolveNamed(auto)
	if !renamed || label == auto {
		t.Fatalf("expected %s to be renamed, got %s", auto, label)
	}
	if label != auto+"_1" {
		t.Fatalf("unexpected disambiguated label: %s", label)
	}
	again, _ := r.resolveNamed(auto)
	if again != label {
		t.Fatalf("expected later requests for %s to return %s, got %s", auto, label, again)
	}
	if got, ok := r.lookup(auto); !ok || got != label {
		t.Fatalf("lookup(%s) = %s, %v", auto, got, ok)
	}
}

func TestBlankRegistryGeneratedSkipsClaimedNames(t *testing.T) {
	r := newBlankRegistry()
	if label, _ := r.resolveNamed("autos1"); label != "autos1" {
		t.Fatalf("expected autos1 to be claimed as-is, got %s", label)
	}
	if auto := r.nextAutoID(); auto != "autos2" {
		t.Fatalf("expected generator to skip a claimed label, got %s", auto)
	}
}

func TestBlankRegistryReserve(t *testing.T) {
	r := newBlankRegistry()
	if label, renamed := r.reserve("x"); label != "x" || renamed {
		t.Fatalf("expected free label to be kept, got %s", label)
	}
	label, renamed := r.reserve("x")
	if !renamed || label != "x_1" {
		t.Fatalf("expected taken label to be renamed to x_1, got %s", label)
	}
	if resolved, _ := r.resolveNamed("x"); resolved != "x" {
		t.Fatalf("expected x to keep resolving to the first node, got %s", resolved)
	}
	if resolved, _ := r.resolveNamed("x_1"); resolved != "x_1" {
		t.Fatalf("expected x_1 to resolve to the reserved node, got %s", resolved)
	}
}

func TestGraphNamedBlankAfterAnonymous(t *testing.T) {
	g := New()
	anon := g.CreateBlankNode()
	named := g.CreateNamedBlankNode(anon.Label())
	if named == anon {
		t.Fatalf("a name equal to a generated label must not reuse the anonymous node")
	}
	if g.CreateNamedBlankNode(anon.Label()) != named {
		t.Fatalf("expected repeated requests to return the renamed node")
	}
	found, ok := g.GetBlankNode(anon.Label())
	if !ok || found != named {
		t.Fatalf("expected lookup by requested name to find the renamed node")
	}
	if found, ok := g.GetBlankNode(named.Label()); !ok || found != named {
		t.Fatalf("expected lookup by assigned label to find the node")
	}
}

func TestRegistryIsPerGraph(t *testing.T) {
	a, b := New(), New()
	a.CreateBlankNode()
	a.CreateBlankNode()
	if got := b.CreateBlankNode().Label(); got != "autos1" {
		t.Fatalf("expected a fresh counter per graph, got %s", got)
	}
}
