package expr

import (
	"testing"

	"github.com/krew-solutions/filterdeps-go/filterdeps/expr/operators"
)

func TestValueNodeHoldsValue(t *testing.T) {
	n := Value(42)
	if n.Value() != 42 {
		t.Errorf("Expected value 42, got %v", n.Value())
	}
}

func TestAndFoldsPairwise(t *testing.T) {
	a := Value(true)
	b := Value(true)
	c := Value(false)

	// And(a, b, c) folds to (a AND b) AND c
	n := And(a, b, c)
	if n.Operator() != operators.OperatorAnd {
		t.Error("Expected AND operator")
	}
	left, ok := n.Left().(InfixNode)
	if !ok {
		t.Fatalf("Expected left to be an infix node, got %T", n.Left())
	}
	if left.Operator() != operators.OperatorAnd {
		t.Error("Expected nested AND on the left")
	}
	if n.Right() != c {
		t.Error("Expected c as the rightmost operand")
	}
}

func TestExtractFieldPath(t *testing.T) {
	n := Field(Object(GlobalScope(), "users"), "name")
	path := ExtractFieldPath(n)
	if len(path) != 2 || path[0] != "users" || path[1] != "name" {
		t.Errorf("Unexpected path: %v", path)
	}

	n = Field(GlobalScope(), "name")
	path = ExtractFieldPath(n)
	if len(path) != 1 || path[0] != "name" {
		t.Errorf("Unexpected path: %v", path)
	}
}

// --- evaluation ---

func TestEvaluateComparison(t *testing.T) {
	p := GreaterThanEqual(Field(GlobalScope(), "view_count"), Value(100))

	matched, err := Evaluate(p, MapContext{"view_count": 150})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !matched {
		t.Error("Expected 150 >= 100 to match")
	}

	matched, err = Evaluate(p, MapContext{"view_count": 99})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if matched {
		t.Error("Expected 99 >= 100 not to match")
	}
}

func TestEvaluateMissingFieldIsNull(t *testing.T) {
	p := Equal(Field(GlobalScope(), "name"), Value("x"))

	matched, err := Evaluate(p, MapContext{})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if matched {
		t.Error("Expected a NULL comparison not to match")
	}
}

func TestEvaluateNullIsNotAMatch(t *testing.T) {
	// NULL OR false stays NULL; WHERE semantics drop the row.
	p := Or(
		Equal(Field(GlobalScope(), "a"), Value(1)),
		Value(false),
	)

	matched, err := Evaluate(p, MapContext{"a": nil})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if matched {
		t.Error("Expected NULL result not to match")
	}
}

func TestEvaluateIsNullOnMissingField(t *testing.T) {
	p := IsNull(Field(GlobalScope(), "deleted_at"))

	matched, err := Evaluate(p, MapContext{})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !matched {
		t.Error("Expected missing field IS NULL to match")
	}
}

func TestEvaluateIn(t *testing.T) {
	p := In(Field(GlobalScope(), "status"), "draft", "published")

	matched, err := Evaluate(p, MapContext{"status": "draft"})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !matched {
		t.Error("Expected 'draft' to be in the list")
	}
}

func TestEvaluateNestedObjectContext(t *testing.T) {
	p := Equal(Field(Object(GlobalScope(), "author"), "name"), Value("ann"))

	ctx := MapContext{"author": MapContext{"name": "ann"}}
	matched, err := Evaluate(p, ctx)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !matched {
		t.Error("Expected nested field to match")
	}
}

func TestEvaluateExistsIsRejected(t *testing.T) {
	p := Exists("comments", "comment", Value(true))

	_, err := Evaluate(p, MapContext{})
	if err == nil {
		t.Error("Expected an error for in-memory EXISTS evaluation")
	}
}
