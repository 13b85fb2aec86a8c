package profile

import "testing"

func TestByNameResolvesKnownDialects(t *testing.T) {
	cases := []struct {
		name string
		want Profile
	}{
		{"Oniguruma", Oniguruma},
		{"Ruby", Ruby},
		{"Perl", Perl},
		{"Perl_NG", PerlNG},
		{"PerlNG", PerlNG},
		{"PosixBasic", PosixBasic},
		{"PosixExtended", PosixExtended},
		{"Asis", Asis},
	}
	for _, c := range cases {
		got, ok := ByName(c.name)
		if !ok || got.Name != c.want.Name {
			t.Fatalf("ByName(%q) = %v,%v, want %v,true", c.name, got, ok, c.want)
		}
	}
}

func TestByNameRejectsUnknownDialect(t *testing.T) {
	if _, ok := ByName("NotARealDialect"); ok {
		t.Fatalf("expected ByName to reject an unknown dialect name")
	}
}

func TestHasRequiresEveryBitInMask(t *testing.T) {
	p := Profile{Features: FeatureBraceInterval | FeatureLazyQuantifier}
	if !p.Has(FeatureBraceInterval) {
		t.Fatalf("expected Has(FeatureBraceInterval) true")
	}
	if !p.Has(FeatureBraceInterval | FeatureLazyQuantifier) {
		t.Fatalf("expected Has of both set bits true")
	}
	if p.Has(FeatureAtomicGroup) {
		t.Fatalf("expected Has(FeatureAtomicGroup) false, bit not set")
	}
	if p.Has(FeatureBraceInterval | FeatureAtomicGroup) {
		t.Fatalf("expected Has to require ALL mask bits, not just one")
	}
}

func TestOnigurumaEnablesPossessiveAndSubexpCall(t *testing.T) {
	if !Oniguruma.Has(FeaturePossessiveQuantifier) {
		t.Fatalf("expected Oniguruma profile to enable possessive quantifiers")
	}
	if !Oniguruma.Has(FeatureSubexpCall) {
		t.Fatalf("expected Oniguruma profile to enable \\g<> subexp calls")
	}
}

func TestPosixBasicDisablesPerlExtensionsAndLazyQuantifiers(t *testing.T) {
	if PosixBasic.Has(FeaturePerlExt) {
		t.Fatalf("expected PosixBasic to disable Perl extensions")
	}
	if PosixBasic.Has(FeatureLazyQuantifier) {
		t.Fatalf("expected PosixBasic to disable lazy quantifiers")
	}
	if !PosixBasic.Has(FeatureLineAnchorsAreBufferAnchors) {
		t.Fatalf("expected PosixBasic line anchors to default to buffer anchors")
	}
}

func TestRubySharesOnigurumaFeatureSet(t *testing.T) {
	if Ruby.Features != Oniguruma.Features {
		t.Fatalf("expected Ruby to share Oniguruma's feature bitmask")
	}
}
