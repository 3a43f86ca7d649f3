package domain

// HalfYear selects a six-month partition of a year.
type HalfYear string

const (
	HalfYearAll    HalfYear = "all"
	HalfYearFirst  HalfYear = "first"
	HalfYearSecond HalfYear = "second"
)

// IsValid checks if the half-year is one of the allowed values.
func (h HalfYear) IsValid() bool {
	switch h {
	case HalfYearAll, HalfYearFirst, HalfYearSecond:
		return true
	}
	return false
}

// Months returns the inclusive month range covered by the half.
func (h HalfYear) Months() (from, to int) {
	switch h {
	case HalfYearFirst:
		return 1, 6
	case HalfYearSecond:
		return 7, 12
	}
	return 1, 12
}

// Label returns the display text used by the narrator.
func (h HalfYear) Label() string {
	switch h {
	case HalfYearFirst:
		return "上半年"
	case HalfYearSecond:
		return "下半年"
	}
	return ""
}

// FilterState is the current selection of one chart or of the whole board.
type FilterState struct {
	Year                   string   `json:"year"`
	HalfYear               HalfYear `json:"halfYear"`
	ExcludeDraft           bool     `json:"excludeDraft"`
	ShowOriginalDepartment bool     `json:"showOriginalDepartment"`
}

// DefaultFilter returns the initial selection.
func DefaultFilter() FilterState {
	return FilterState{Year: AllYears, HalfYear: HalfYearAll}
}

// IsAllYears reports whether the all-time aggregates are selected.
func (f FilterState) IsAllYears() bool {
	return f.Year == "" || f.Year == AllYears
}

// HalfYearEnabled reports whether a half-year choice has any effect.
func (f FilterState) HalfYearEnabled() bool {
	return !f.IsAllYears()
}

// HasHalfYear reports whether a specific half of a specific year is selected.
func (f FilterState) HasHalfYear() bool {
	return f.HalfYearEnabled() && (f.HalfYear == HalfYearFirst || f.HalfYear == HalfYearSecond)
}

// Normalize fills blanks with defaults and clears the half-year when no
// specific year is selected.
func (f FilterState) Normalize() FilterState {
	if f.Year == "" {
		f.Year = AllYears
	}
	if f.HalfYear == "" || !f.HalfYear.IsValid() {
		f.HalfYear = HalfYearAll
	}
	if !f.HalfYearEnabled() {
		f.HalfYear = HalfYearAll
	}
	return f
}

// ActionKind names a filter transition.
type ActionKind string

const (
	ActionSetYear                   ActionKind = "SET_YEAR"
	ActionSetHalfYear               ActionKind = "SET_HALF_YEAR"
	ActionSetExcludeDraft           ActionKind = "SET_EXCLUDE_DRAFT"
	ActionSetShowOriginalDepartment ActionKind = "SET_SHOW_ORIGINAL_DEPARTMENT"
	ActionReset                     ActionKind = "RESET"
)

// Action is one user interaction with a filter control.
type Action struct {
	Kind     ActionKind `json:"kind"`
	Year     string     `json:"year,omitempty"`
	HalfYear HalfYear   `json:"halfYear,omitempty"`
	Flag     bool       `json:"flag,omitempty"`
}

func SetYear(year string) Action {
	return Action{Kind: ActionSetYear, Year: year}
}

func SetHalfYear(half HalfYear) Action {
	return Action{Kind: ActionSetHalfYear, HalfYear: half}
}

func SetExcludeDraft(on bool) Action {
	return Action{Kind: ActionSetExcludeDraft, Flag: on}
}

func SetShowOriginalDepartment(on bool) Action {
	return Action{Kind: ActionSetShowOriginalDepartment, Flag: on}
}

// Reset restores the defaults. Drafts stay excluded when excludeDraft is set,
// for charts that start out that way.
func Reset(excludeDraft bool) Action {
	return Action{Kind: ActionReset, Flag: excludeDraft}
}

// Reduce applies an action and returns the next state. It never mutates s.
// Unknown actions and invalid half-year values leave the state unchanged.
func Reduce(s FilterState, a Action) FilterState {
	next := s
	switch a.Kind {
	case ActionSetYear:
		next.Year = a.Year
		if next.IsAllYears() {
			next.HalfYear = HalfYearAll
		}
	case ActionSetHalfYear:
		if !a.HalfYear.IsValid() {
			return s
		}
		next.HalfYear = a.HalfYear
	case ActionSetExcludeDraft:
		next.ExcludeDraft = a.Flag
	case ActionSetShowOriginalDepartment:
		next.ShowOriginalDepartment = a.Flag
	case ActionReset:
		next = DefaultFilter()
		next.ExcludeDraft = a.Flag
		return next
	default:
		return s
	}
	return next.Normalize()
}
