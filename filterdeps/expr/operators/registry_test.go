package operators

import (
	"testing"
	"time"
)

func execBool(t *testing.T, reg *OperatorRegistry, left any, op Operator, right any) any {
	t.Helper()
	result, err := reg.ExecBinary(left, op, right)
	if err != nil {
		t.Fatalf("ExecBinary(%v %s %v) failed: %v", left, op, right, err)
	}
	return result
}

func TestComparisonOperators(t *testing.T) {
	reg := NewDefaultRegistry()

	if execBool(t, reg, 5, OperatorGt, 3) != true {
		t.Error("Expected 5 > 3 to be true")
	}
	if execBool(t, reg, int64(5), OperatorLte, int64(5)) != true {
		t.Error("Expected 5 <= 5 to be true")
	}
	if execBool(t, reg, 2.5, OperatorEq, 2.5) != true {
		t.Error("Expected 2.5 = 2.5 to be true")
	}
	if execBool(t, reg, "abc", OperatorNe, "abd") != true {
		t.Error("Expected 'abc' != 'abd' to be true")
	}
}

func TestTimeComparison(t *testing.T) {
	reg := NewDefaultRegistry()
	earlier := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := earlier.Add(time.Hour)

	if execBool(t, reg, earlier, OperatorLt, later) != true {
		t.Error("Expected earlier < later")
	}
	if execBool(t, reg, later, OperatorGte, later) != true {
		t.Error("Expected t >= t")
	}
}

func TestNullPropagation(t *testing.T) {
	reg := NewDefaultRegistry()

	result, err := reg.ExecBinary(nil, OperatorEq, 5)
	if err != nil {
		t.Fatalf("ExecBinary failed: %v", err)
	}
	if result != nil {
		t.Errorf("Expected NULL = 5 to be NULL, got %v", result)
	}

	result, err = reg.ExecUnary(OperatorNot, nil)
	if err != nil {
		t.Fatalf("ExecUnary failed: %v", err)
	}
	if result != nil {
		t.Errorf("Expected NOT NULL to be NULL, got %v", result)
	}
}

// --- three-valued logic ---

func TestAndFalseDominatesNull(t *testing.T) {
	reg := NewDefaultRegistry()

	if execBool(t, reg, false, OperatorAnd, nil) != false {
		t.Error("Expected false AND NULL to be false")
	}
	if execBool(t, reg, nil, OperatorAnd, false) != false {
		t.Error("Expected NULL AND false to be false")
	}
	if execBool(t, reg, true, OperatorAnd, nil) != nil {
		t.Error("Expected true AND NULL to be NULL")
	}
}

func TestOrTrueDominatesNull(t *testing.T) {
	reg := NewDefaultRegistry()

	if execBool(t, reg, true, OperatorOr, nil) != true {
		t.Error("Expected true OR NULL to be true")
	}
	if execBool(t, reg, nil, OperatorOr, true) != true {
		t.Error("Expected NULL OR true to be true")
	}
	if execBool(t, reg, false, OperatorOr, nil) != nil {
		t.Error("Expected false OR NULL to be NULL")
	}
}

// --- nullability and truth tests ---

func TestIsNullChecks(t *testing.T) {
	reg := NewDefaultRegistry()

	result, err := reg.ExecUnary(OperatorIsNull, nil)
	if err != nil {
		t.Fatalf("ExecUnary failed: %v", err)
	}
	if result != true {
		t.Error("Expected NULL IS NULL to be true")
	}

	result, err = reg.ExecUnary(OperatorIsNotNull, "x")
	if err != nil {
		t.Fatalf("ExecUnary failed: %v", err)
	}
	if result != true {
		t.Error("Expected 'x' IS NOT NULL to be true")
	}
}

func TestIsTrueOnNull(t *testing.T) {
	reg := NewDefaultRegistry()

	result, err := reg.ExecUnary(OperatorIsTrue, nil)
	if err != nil {
		t.Fatalf("ExecUnary failed: %v", err)
	}
	if result != false {
		t.Error("Expected NULL IS TRUE to be false")
	}

	result, err = reg.ExecUnary(OperatorIsFalse, false)
	if err != nil {
		t.Fatalf("ExecUnary failed: %v", err)
	}
	if result != true {
		t.Error("Expected false IS FALSE to be true")
	}
}

// --- IN ---

func TestInOperator(t *testing.T) {
	reg := NewDefaultRegistry()

	if execBool(t, reg, "b", OperatorIn, []any{"a", "b"}) != true {
		t.Error("Expected 'b' IN ('a', 'b') to be true")
	}
	if execBool(t, reg, "c", OperatorIn, []any{"a", "b"}) != false {
		t.Error("Expected 'c' IN ('a', 'b') to be false")
	}

	result, err := reg.ExecBinary(nil, OperatorIn, []any{"a"})
	if err != nil {
		t.Fatalf("ExecBinary failed: %v", err)
	}
	if result != nil {
		t.Error("Expected NULL IN (...) to be NULL")
	}
}

// --- pattern matching ---

func TestLikeMatching(t *testing.T) {
	reg := NewDefaultRegistry()

	if execBool(t, reg, "hello world", OperatorLike, "%world") != true {
		t.Error("Expected '%world' to match 'hello world'")
	}
	if execBool(t, reg, "Hello", OperatorLike, "hello") != false {
		t.Error("Expected LIKE to be case-sensitive")
	}
	if execBool(t, reg, "Hello", OperatorILike, "hello") != true {
		t.Error("Expected ILIKE to be case-insensitive")
	}
	if execBool(t, reg, "cat", OperatorLike, "c_t") != true {
		t.Error("Expected 'c_t' to match 'cat'")
	}
}

func TestRegexMatching(t *testing.T) {
	reg := NewDefaultRegistry()

	if execBool(t, reg, "Item 42", OperatorRegex, "^Item") != true {
		t.Error("Expected '^Item' to match 'Item 42'")
	}
	if execBool(t, reg, "item 42", OperatorRegex, "^Item") != false {
		t.Error("Expected ~ to be case-sensitive")
	}
	if execBool(t, reg, "item 42", OperatorRegexCI, "^Item") != true {
		t.Error("Expected ~* to be case-insensitive")
	}
}

func TestUnknownOperatorCombination(t *testing.T) {
	reg := NewDefaultRegistry()

	_, err := reg.ExecBinary("a", OperatorGt, 5)
	if err == nil {
		t.Error("Expected an error for string > int")
	}
}
