package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/agbru/besselj/internal/bessel"
	"github.com/agbru/besselj/internal/config"
	"github.com/agbru/besselj/internal/testutil"
)

func TestGetEvaluatorsToRun(t *testing.T) {
	t.Parallel()
	factory := bessel.NewTestFactory(map[string]bessel.Evaluator{
		"b": &bessel.MockEvaluator{Label: "B"},
		"a": &bessel.MockEvaluator{Label: "A"},
	})

	all := GetEvaluatorsToRun(config.AppConfig{Algo: "all"}, factory)
	if len(all) != 2 || all[0].Name() != "A" || all[1].Name() != "B" {
		t.Errorf("expected A then B, got %v", all)
	}

	one := GetEvaluatorsToRun(config.AppConfig{Algo: "b"}, factory)
	if len(one) != 1 || one[0].Name() != "B" {
		t.Errorf("expected only B, got %v", one)
	}

	if none := GetEvaluatorsToRun(config.AppConfig{Algo: "missing"}, factory); len(none) != 0 {
		t.Errorf("expected no evaluator, got %v", none)
	}
}

func TestPrintExecutionConfig(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	PrintExecutionConfig(config.AppConfig{X: 2.5, N: 3.4, Timeout: 5 * time.Second}, &buf)
	output := testutil.StripAnsiCodes(buf.String())
	if !strings.Contains(output, "Evaluating J_3.4 → 3(2.5) with a timeout of 5s.") {
		t.Errorf("unexpected output:\n%s", output)
	}
	if !strings.Contains(output, "logical processors") {
		t.Errorf("missing environment line:\n%s", output)
	}
}

func TestPrintExecutionMode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		evaluators []bessel.Evaluator
		want       string
	}{
		{nil, "No evaluator selected"},
		{[]bessel.Evaluator{&bessel.MockEvaluator{Label: "Solo"}}, "Single evaluation with Solo"},
		{[]bessel.Evaluator{&bessel.MockEvaluator{}, &bessel.MockEvaluator{}}, "Parallel comparison of all evaluators"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		PrintExecutionMode(tt.evaluators, &buf)
		if !strings.Contains(testutil.StripAnsiCodes(buf.String()), tt.want) {
			t.Errorf("expected %q in %q", tt.want, buf.String())
		}
	}
}
