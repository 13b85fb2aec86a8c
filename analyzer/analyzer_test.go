package analyzer

import (
	"testing"

	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/encoding"
	"github.com/coregx/goonig/parser"
	"github.com/coregx/goonig/profile"
)

func mustAnalyze(t *testing.T, pat string) (*ast.Node, *Info) {
	t.Helper()
	enc, _ := encoding.ByName("UTF-8")
	root, _, err := parser.Parse([]byte(pat), ast.OptionNone, enc, profile.Oniguruma, parser.DefaultConfig())
	if err != nil {
		t.Fatalf("Parse(%q): %v", pat, err)
	}
	return root, Analyze(root, enc, DefaultConfig())
}

func TestAnalyzeFixedLiteralLengths(t *testing.T) {
	_, info := mustAnalyze(t, "hello")
	if info.CharMin != 5 || info.CharMax != 5 || info.ByteMin != 5 || info.ByteMax != 5 {
		t.Fatalf("expected fixed length 5/5, got char=%d/%d byte=%d/%d", info.CharMin, info.CharMax, info.ByteMin, info.ByteMax)
	}
	if info.Optimize != OptimizeExact || string(info.Exact) != "hello" {
		t.Fatalf("expected OptimizeExact(\"hello\"), got %v %q", info.Optimize, info.Exact)
	}
}

func TestAnalyzeUnboundedQuantifierLength(t *testing.T) {
	_, info := mustAnalyze(t, "a+")
	if info.CharMin != 1 || info.CharMax != ast.Unbounded {
		t.Fatalf("expected min=1 max=unbounded, got %d/%d", info.CharMin, info.CharMax)
	}
}

func TestAnalyzeBeginBufAnchor(t *testing.T) {
	_, info := mustAnalyze(t, `\Afoo`)
	if info.Anchors&AnchorBeginBuf == 0 {
		t.Fatalf("expected AnchorBeginBuf set, got %v", info.Anchors)
	}
}

func TestAnalyzeBeginPositionAnchor(t *testing.T) {
	_, info := mustAnalyze(t, `\Gfoo`)
	if info.Anchors&AnchorBeginPosition == 0 {
		t.Fatalf("expected AnchorBeginPosition set, got %v", info.Anchors)
	}
}

func TestAnalyzeThresholdLenReflectsMinLength(t *testing.T) {
	_, info := mustAnalyze(t, "abc")
	if info.ThresholdLen != 3 {
		t.Fatalf("expected ThresholdLen=3, got %d", info.ThresholdLen)
	}
}

func TestAnalyzeAlternationWidensLengthBounds(t *testing.T) {
	_, info := mustAnalyze(t, "a|bb|ccc")
	if info.CharMin != 1 || info.CharMax != 3 {
		t.Fatalf("expected min=1 max=3 across alternatives of varying length, got %d/%d", info.CharMin, info.CharMax)
	}
}
