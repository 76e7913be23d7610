package rt

import (
	"errors"
	"testing"
)

// A <- B <- C, trait T : A; every declaration has a class object.
func defineChain(r *Runtime, log *effectLog) (a, b, c, tr *Lazy[*Class]) {
	a = r.DefineClass(&ClassDef{Name: "A", Constructor: logging(log, "A"), ClassObject: objectLogging(log, "coA")})
	b = r.DefineClass(&ClassDef{Name: "B", Bases: basesOf(a), Constructor: logging(log, "B"), ClassObject: objectLogging(log, "coB")})
	c = r.DefineClass(&ClassDef{Name: "C", Bases: basesOf(b), Constructor: logging(log, "C"), ClassObject: objectLogging(log, "coC")})
	tr = r.DefineClass(&ClassDef{Name: "T", Kind: KindTrait, Bases: basesOf(a), ClassObject: objectLogging(log, "coT")})
	return a, b, c, tr
}

func TestClassObjectInitOrder(t *testing.T) {
	r := New()
	var log effectLog
	a, b, c, tr := defineChain(r, &log)

	obj, err := r.ClassObject(mustForce(t, a))
	if err != nil || obj != "coA" {
		t.Fatalf("A object = %v, %v", obj, err)
	}
	if _, err := r.New(mustForce(t, b)); err != nil {
		t.Fatalf("B(): %v", err)
	}
	if _, err := r.New(mustForce(t, c)); err != nil {
		t.Fatalf("C(): %v", err)
	}
	if got := log.String(); got != "coA_coB_A_B_coC_A_B_C" {
		t.Fatalf("init order = %s", got)
	}
	if mustForce(t, tr).ClassObjectForced() {
		t.Fatalf("trait object must stay unforced")
	}

	// later instantiations never re-run class objects
	log.parts = nil
	if _, err := r.New(mustForce(t, c)); err != nil {
		t.Fatalf("C(): %v", err)
	}
	if got := log.String(); got != "A_B_C" {
		t.Fatalf("second C() = %s", got)
	}
}

func TestTraitClassObjectIsScoped(t *testing.T) {
	r := New()
	var log effectLog
	a, _, _, tr := defineChain(r, &log)

	obj, err := r.ClassObject(mustForce(t, tr))
	if err != nil || obj != "coT" {
		t.Fatalf("T object = %v, %v", obj, err)
	}
	if got := log.String(); got != "coT" {
		t.Fatalf("log = %s, want coT", got)
	}
	if mustForce(t, a).ClassObjectForced() {
		t.Fatalf("A object forced by trait access")
	}
}

func TestSelfInstantiatingClassObject(t *testing.T) {
	r := New()
	var log effectLog
	var a *Lazy[*Class]
	b := r.DefineClass(&ClassDef{Name: "B", Constructor: logging(&log, "B"), ClassObject: objectLogging(&log, "coB")})
	a = r.DefineClass(&ClassDef{
		Name:        "A",
		Bases:       basesOf(b),
		Constructor: logging(&log, "A"),
		ClassObject: func(r *Runtime) (Value, error) {
			return r.CreateObject(&ObjectDef{Name: "A.object", Bases: basesOf(a), Constructor: logging(&log, "coA")})
		},
	})

	ac := mustForce(t, a)
	if _, err := r.New(ac); err != nil {
		t.Fatalf("A(): %v", err)
	}
	if got := log.String(); got != "coB_B_A_coA_B_A" {
		t.Fatalf("init order = %s", got)
	}
	obj, err := r.ClassObject(ac)
	if err != nil {
		t.Fatalf("A object: %v", err)
	}
	if !IsInstance(obj, ac) {
		t.Fatalf("A object must be an A, got %v", obj)
	}
}

func TestClassObjectReentrantReadIsNil(t *testing.T) {
	r := New()
	var seen Value = "unset"
	var a *Lazy[*Class]
	a = r.DefineClass(&ClassDef{Name: "A", ClassObject: func(r *Runtime) (Value, error) {
		c, err := a.Force()
		if err != nil {
			return nil, err
		}
		seen, err = r.ClassObject(c)
		return "obj", err
	}})
	if _, err := r.ClassObject(mustForce(t, a)); err != nil {
		t.Fatalf("class object: %v", err)
	}
	if seen != nil {
		t.Fatalf("re-entrant read = %v, want nil", seen)
	}
}

func TestClassWithoutObjectWiresBase(t *testing.T) {
	r := New()
	var log effectLog
	a := r.DefineClass(&ClassDef{Name: "A", ClassObject: objectLogging(&log, "coA")})
	b := r.DefineClass(&ClassDef{Name: "B", Bases: basesOf(a)})

	obj, err := r.ClassObject(mustForce(t, b))
	if err != nil || obj != nil {
		t.Fatalf("B object = %v, %v; want no object", obj, err)
	}
	if got := log.String(); got != "coA" {
		t.Fatalf("log = %s", got)
	}
}

func TestClassObjectFailureIsMemoized(t *testing.T) {
	r := New()
	boom := errors.New("boom")
	calls := 0
	c := mustForce(t, r.DefineClass(&ClassDef{Name: "F", ClassObject: func(*Runtime) (Value, error) {
		calls++
		return nil, boom
	}}))
	for range 2 {
		if _, err := r.ClassObject(c); !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
	}
	if _, err := r.New(c); !errors.Is(err, boom) {
		t.Fatalf("constructing F must fail, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("builder ran %d times", calls)
	}
}
