package features

import (
	"reflect"
	"sync"
	"testing"
)

func TestEncode_StandardExample(t *testing.T) {
	got := Encode(CustomerRecord{TenureMonths: 12, Subscription: Standard, MonthlyCharges: 55.0, SupportCalls: 2})
	want := Vector{12, 55, 2, 0, 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Encode = %v, want %v", got, want)
	}
}

func TestEncode_OneIndicatorStatePerPlan(t *testing.T) {
	prem, std := V1.Index("isPremium"), V1.Index("isStandard")
	want := map[Subscription][2]float64{
		Basic:    {0, 0},
		Standard: {0, 1},
		Premium:  {1, 0},
	}
	seen := map[[2]float64]Subscription{}
	for _, s := range Subscriptions {
		v := Encode(CustomerRecord{TenureMonths: 3, Subscription: s, MonthlyCharges: 20, SupportCalls: 0})
		got := [2]float64{v[prem], v[std]}
		if got != want[s] {
			t.Fatalf("%s indicators = %v, want %v", s, got, want[s])
		}
		if other, dup := seen[got]; dup {
			t.Fatalf("%s shares indicator state with %s", s, other)
		}
		seen[got] = s
	}
}

func TestEncode_NumericPassThrough(t *testing.T) {
	v := Encode(CustomerRecord{TenureMonths: 0, Subscription: Basic, MonthlyCharges: 118.35, SupportCalls: 10})
	if v[0] != 0 || v[1] != 118.35 || v[2] != 10 {
		t.Fatalf("numeric columns altered: %v", v)
	}
	if len(v) != V1.Width() {
		t.Fatalf("width %d want %d", len(v), V1.Width())
	}
}

func TestEncode_Deterministic(t *testing.T) {
	r := CustomerRecord{TenureMonths: 40, Subscription: Premium, MonthlyCharges: 99.9, SupportCalls: 1}
	first := Encode(r)
	for i := 0; i < 100; i++ {
		if got := Encode(r); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d = %v, first %v", i, got, first)
		}
	}
}

func TestEncode_FreshVectorEachCall(t *testing.T) {
	r := CustomerRecord{TenureMonths: 5, Subscription: Basic, MonthlyCharges: 30, SupportCalls: 1}
	a := Encode(r)
	b := Encode(r)
	a[0] = 999
	if b[0] != 5 {
		t.Fatalf("vectors share backing storage")
	}
}

func TestEncode_ConcurrentCallsDoNotShare(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			v := Encode(CustomerRecord{TenureMonths: n, Subscription: Standard, MonthlyCharges: float64(n), SupportCalls: n % 11})
			v[1]++ // scribble on our own copy
			if v[0] != float64(n) || v[1] != float64(n)+1 || v[2] != float64(n%11) {
				errs <- "mixed vector"
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Fatal(e)
	}
}

func TestSchema_ColumnsAndCheck(t *testing.T) {
	cols := V1.Columns()
	want := []string{"tenureMonths", "monthlyCharges", "supportCalls", "isPremium", "isStandard"}
	if !reflect.DeepEqual(cols, want) {
		t.Fatalf("Columns = %v", cols)
	}
	if V1.String() != "churn-features@v1" {
		t.Fatalf("String = %q", V1.String())
	}
	if err := V1.Check("churn-features", 1, want); err != nil {
		t.Fatalf("Check same layout: %v", err)
	}

	swapped := []string{"tenureMonths", "monthlyCharges", "supportCalls", "isStandard", "isPremium"}
	cases := []struct {
		name    string
		version int
		cols    []string
	}{
		{"other", 1, want},
		{"churn-features", 2, want},
		{"churn-features", 1, want[:4]},
		{"churn-features", 1, swapped},
	}
	for _, tc := range cases {
		if err := V1.Check(tc.name, tc.version, tc.cols); err == nil {
			t.Fatalf("Check(%s, %d, %v) should fail", tc.name, tc.version, tc.cols)
		}
	}
	if V1.Index("nope") != -1 {
		t.Fatalf("Index of unknown column should be -1")
	}
}

func TestSubscription_ValidIsCaseSensitive(t *testing.T) {
	for _, s := range Subscriptions {
		if !s.Valid() {
			t.Fatalf("%s should be valid", s)
		}
	}
	for _, s := range []Subscription{"Gold", "basic", "PREMIUM", ""} {
		if s.Valid() {
			t.Fatalf("%q should be invalid", s)
		}
	}
}

func TestUIBounds(t *testing.T) {
	if !UIBounds["TenureMonths"].Contains(1) || UIBounds["TenureMonths"].Contains(0) {
		t.Fatalf("tenure bounds wrong")
	}
	if !UIBounds["MonthlyCharges"].Contains(120) || UIBounds["MonthlyCharges"].Contains(120.01) {
		t.Fatalf("charges bounds wrong")
	}
	if !UIBounds["SupportCalls"].Contains(0) || UIBounds["SupportCalls"].Contains(11) {
		t.Fatalf("support calls bounds wrong")
	}
}
