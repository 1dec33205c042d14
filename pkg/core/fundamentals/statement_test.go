package fundamentals

import "testing"

func TestStatementValuePrefersMostRecentPeriod(t *testing.T) {
	stmt := NewStatement("2024-09-28", "2023-09-30", "2022-09-24")
	stmt.Set("Assets", "2022-09-24", 100)
	stmt.Set("Assets", "2023-09-30", 200)

	v, ok := stmt.Value("Assets")
	if !ok {
		t.Fatal("expected Assets to resolve")
	}
	if v != 200 {
		t.Errorf("Value(Assets) = %v, want 200 (most recent period with a value)", v)
	}
}

func TestStatementNormalizesPrefixedConcepts(t *testing.T) {
	stmt := NewStatement("2024-09-28")
	stmt.Set("us-gaap:OperatingIncomeLoss", "2024-09-28", 42)

	if v, ok := stmt.Value("us-gaap_OperatingIncomeLoss"); !ok || v != 42 {
		t.Errorf("underscore spelling = (%v, %v), want (42, true)", v, ok)
	}
	if v, ok := stmt.Value("us-gaap:OperatingIncomeLoss"); !ok || v != 42 {
		t.Errorf("colon spelling = (%v, %v), want (42, true)", v, ok)
	}
}

func TestStatementMissingConcept(t *testing.T) {
	stmt := NewStatement("2024-09-28")
	if v, ok := stmt.Value("Assets"); ok || v != 0 {
		t.Errorf("Value on empty statement = (%v, %v), want (0, false)", v, ok)
	}
}

func TestLookupConceptFallsBackThroughAliases(t *testing.T) {
	stmt := NewStatement("2024-09-28")
	stmt.Set("IncomeLossFromContinuingOperationsBeforeIncomeTaxesExtraordinaryItemsNoncontrollingInterest", "2024-09-28", 150)

	v, ok := LookupConcept(stmt, operatingIncomeConcepts)
	if !ok || v != 150 {
		t.Errorf("LookupConcept = (%v, %v), want pretax alias fallback (150, true)", v, ok)
	}
}

func TestLookupConceptPrefersCanonicalName(t *testing.T) {
	stmt := NewStatement("2024-09-28")
	stmt.Set("OperatingIncomeLoss", "2024-09-28", 150)
	stmt.Set("IncomeLossFromContinuingOperationsBeforeIncomeTaxesExtraordinaryItemsNoncontrollingInterest", "2024-09-28", 999)

	v, ok := LookupConcept(stmt, operatingIncomeConcepts)
	if !ok || v != 150 {
		t.Errorf("LookupConcept = (%v, %v), want canonical name first (150, true)", v, ok)
	}
}

func TestLookupConceptNilStatement(t *testing.T) {
	if v, ok := LookupConcept(nil, totalAssetsConcepts); ok || v != 0 {
		t.Errorf("LookupConcept(nil) = (%v, %v), want (0, false)", v, ok)
	}
}

func TestLookupOrZero(t *testing.T) {
	stmt := NewStatement("2024-09-28")
	if v := lookupOrZero(stmt, cashConcepts); v != 0 {
		t.Errorf("lookupOrZero on empty statement = %v, want 0", v)
	}
	stmt.Set("Cash", "2024-09-28", 77)
	if v := lookupOrZero(stmt, cashConcepts); v != 77 {
		t.Errorf("lookupOrZero = %v, want alias fallback 77", v)
	}
}

func TestEffectiveTaxRate(t *testing.T) {
	period := "2024-09-28"
	build := func(taxExpense, pretax *float64) *Statement {
		stmt := NewStatement(period)
		if taxExpense != nil {
			stmt.Set("IncomeTaxExpenseBenefit", period, *taxExpense)
		}
		if pretax != nil {
			stmt.Set("IncomeLossFromContinuingOperationsBeforeIncomeTaxesExtraordinaryItemsNoncontrollingInterest", period, *pretax)
		}
		return stmt
	}

	tests := []struct {
		name   string
		income *Statement
		want   float64
	}{
		{"normal rate", build(f64(21), f64(100)), 0.21},
		{"negative inputs take absolute value", build(f64(-30), f64(100)), 0.30},
		{"rate above 50 percent clamps to default", build(f64(80), f64(100)), defaultTaxRate},
		{"zero pretax income clamps to default", build(f64(21), f64(0)), defaultTaxRate},
		{"missing tax expense clamps to default", build(nil, f64(100)), defaultTaxRate},
		{"missing pretax income clamps to default", build(f64(21), nil), defaultTaxRate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := effectiveTaxRate(tt.income); got != tt.want {
				t.Errorf("effectiveTaxRate = %v, want %v", got, tt.want)
			}
		})
	}
}
