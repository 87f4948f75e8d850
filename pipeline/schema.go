package pipeline

import "errors"

// Column positions in a session record. The label is always the last column.
const (
	ColAdministrative = iota
	ColAdministrativeDuration
	ColInformational
	ColInformationalDuration
	ColProductRelated
	ColProductRelatedDuration
	ColBounceRates
	ColExitRates
	ColPageValues
	ColSpecialDay
	ColMonth
	ColOperatingSystems
	ColBrowser
	ColRegion
	ColTrafficType
	ColVisitorType
	ColWeekend
	ColRevenue
)

const (
	// FeatureCount is the width of every evidence vector.
	FeatureCount = ColRevenue
	// ColumnCount is the number of fields in a data row, label included.
	ColumnCount = ColRevenue + 1
)

const (
	returningVisitor = "Returning_Visitor"
	trueLiteral      = "TRUE"
)

var (
	ErrUnknownMonth = errors.New("unknown month")
	ErrColumnCount  = errors.New("unexpected column count")
)

// months is the fixed month lookup table. "June" is spelled out, "Jun" is not accepted.
var months = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "June", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var columnNames = [ColumnCount]string{
	"Administrative",
	"Administrative_Duration",
	"Informational",
	"Informational_Duration",
	"ProductRelated",
	"ProductRelated_Duration",
	"BounceRates",
	"ExitRates",
	"PageValues",
	"SpecialDay",
	"Month",
	"OperatingSystems",
	"Browser",
	"Region",
	"TrafficType",
	"VisitorType",
	"Weekend",
	"Revenue",
}

// MonthIndex maps a month literal to its zero-based position. The match is case sensitive.
func MonthIndex(name string) (int, error) {
	for i, m := range months {
		if m == name {
			return i, nil
		}
	}
	return -1, ErrUnknownMonth
}

// FeatureNames returns the evidence column names in vector order.
func FeatureNames() []string {
	names := make([]string, FeatureCount)
	copy(names, columnNames[:FeatureCount])
	return names
}

// LabelName is the name of the target column.
func LabelName() string {
	return columnNames[ColRevenue]
}

// ColumnName returns the schema name for a column index, or "" when out of range.
func ColumnName(col int) string {
	if col < 0 || col >= ColumnCount {
		return ""
	}
	return columnNames[col]
}
