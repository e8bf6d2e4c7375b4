package operators

type Operator string

const (
	// Comparison

	OperatorEq  Operator = "="
	OperatorGt  Operator = ">"
	OperatorLt  Operator = "<"
	OperatorGte Operator = ">="
	OperatorLte Operator = "<="
	OperatorNe  Operator = "!="
	OperatorIs  Operator = "IS"

	// Logical operators

	OperatorAnd Operator = "AND"
	OperatorOr  Operator = "OR"
	OperatorNot Operator = "NOT"

	// Pattern matching

	OperatorLike       Operator = "LIKE"
	OperatorILike      Operator = "ILIKE"
	OperatorRegex      Operator = "~"
	OperatorRegexCI    Operator = "~*"
	OperatorIn         Operator = "IN"

	// JSON access

	OperatorJSONText Operator = "->>"
	OperatorJSONPath Operator = "#>>"

	// Postfix

	OperatorIsNull    Operator = "IS NULL"
	OperatorIsNotNull Operator = "IS NOT NULL"
	OperatorIsTrue    Operator = "IS TRUE"
	OperatorIsFalse   Operator = "IS FALSE"
)
