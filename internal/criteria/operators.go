package criteria

// Salesforce field datatypes the builder understands.
const (
	DataTypeString    = "string"
	DataTypePicklist  = "picklist"
	DataTypeTextarea  = "textarea"
	DataTypeEmail     = "email"
	DataTypePhone     = "phone"
	DataTypeReference = "reference"
	DataTypeID        = "id"
	DataTypeInt       = "int"
	DataTypeDouble    = "double"
	DataTypeCurrency  = "currency"
	DataTypePercent   = "percent"
	DataTypeDate      = "date"
	DataTypeDateTime  = "datetime"
	DataTypeBoolean   = "boolean"
)

type Operator struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

var stringOperators = []Operator{
	{Label: "contains", Value: "LIKE"},
	{Label: "equals", Value: "="},
	{Label: "not equals", Value: "!="},
}

var comparisonOperators = []Operator{
	{Label: "equals", Value: "="},
	{Label: "not equals", Value: "!="},
	{Label: "less than", Value: "<"},
	{Label: "less than or equal", Value: "<="},
	{Label: "greater than", Value: ">"},
	{Label: "greater than or equal", Value: ">="},
}

var booleanOperators = []Operator{
	{Label: "equals", Value: "="},
	{Label: "not equals", Value: "!="},
}

// OperatorMap is the static datatype -> operator catalog.
var OperatorMap = map[string][]Operator{
	DataTypeString:    stringOperators,
	DataTypePicklist:  stringOperators,
	DataTypeTextarea:  stringOperators,
	DataTypeEmail:     stringOperators,
	DataTypePhone:     stringOperators,
	DataTypeReference: stringOperators,
	DataTypeID:        stringOperators,
	DataTypeInt:       comparisonOperators,
	DataTypeDouble:    comparisonOperators,
	DataTypeCurrency:  comparisonOperators,
	DataTypePercent:   comparisonOperators,
	DataTypeDate:      comparisonOperators,
	DataTypeDateTime:  comparisonOperators,
	DataTypeBoolean:   booleanOperators,
}

// OperatorsFor returns the operators valid for dataType. Unknown datatypes
// are treated as strings.
func OperatorsFor(dataType string) []Operator {
	if ops, ok := OperatorMap[dataType]; ok {
		return ops
	}
	return stringOperators
}

func IsValidOperator(dataType, operator string) bool {
	for _, op := range OperatorsFor(dataType) {
		if op.Value == operator {
			return true
		}
	}
	return false
}
