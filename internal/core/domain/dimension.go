package domain

// Dimension is one axis of aggregation a chart can display.
type Dimension string

const (
	DimensionDepartment    Dimension = "department"
	DimensionDepartmentAll Dimension = "department-all"
	DimensionSystem        Dimension = "system"
	DimensionType          Dimension = "type"
	DimensionStatus        Dimension = "status"
	DimensionMonthly       Dimension = "monthly"
	DimensionYearly        Dimension = "yearly"
	DimensionAudit         Dimension = "audit"
)

// DepartmentTopN is the number of departments shown on the department chart.
const DepartmentTopN = 10

// Dimensions lists every queryable dimension.
var Dimensions = []Dimension{
	DimensionDepartment,
	DimensionDepartmentAll,
	DimensionSystem,
	DimensionType,
	DimensionStatus,
	DimensionMonthly,
	DimensionYearly,
	DimensionAudit,
}

// ChartDimensions are the dimensions that own a per-chart filter on the board.
var ChartDimensions = []Dimension{
	DimensionDepartment,
	DimensionSystem,
	DimensionType,
	DimensionStatus,
	DimensionMonthly,
}

// IsValid checks if the dimension is known.
func (d Dimension) IsValid() bool {
	for _, known := range Dimensions {
		if d == known {
			return true
		}
	}
	return false
}

// ChartDefault returns the initial filter of the dimension's chart.
func (d Dimension) ChartDefault() FilterState {
	f := DefaultFilter()
	if d == DimensionStatus {
		f.ExcludeDraft = true
	}
	return f
}
