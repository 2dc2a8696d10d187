package models

// ChildKind names one of the crew's wholesale-replaced child collections.
type ChildKind string

const (
	ChildActivityDays      ChildKind = "activity_days"
	ChildActivityLocations ChildKind = "activity_locations"
	ChildAgeRange          ChildKind = "age_range"
	ChildPhotos            ChildKind = "activity_photos"
)

// ChildSet is the complete new content of one child collection.
// Rows returns the column values for each row, excluding crew_id.
type ChildSet interface {
	Kind() ChildKind
	Rows() [][]any
}

// ActivityDaySet replaces crew_activity_days.
type ActivityDaySet []string

func (s ActivityDaySet) Kind() ChildKind { return ChildActivityDays }

func (s ActivityDaySet) Rows() [][]any {
	rows := make([][]any, 0, len(s))
	for _, day := range s {
		rows = append(rows, []any{day})
	}
	return rows
}

// ActivityLocationSet replaces crew_activity_locations.
type ActivityLocationSet []string

func (s ActivityLocationSet) Kind() ChildKind { return ChildActivityLocations }

func (s ActivityLocationSet) Rows() [][]any {
	rows := make([][]any, 0, len(s))
	for _, name := range s {
		rows = append(rows, []any{name})
	}
	return rows
}

// AgeRangeSet replaces crew_age_ranges. A nil Range clears the collection.
type AgeRangeSet struct {
	Range *AgeRange
}

func (s AgeRangeSet) Kind() ChildKind { return ChildAgeRange }

func (s AgeRangeSet) Rows() [][]any {
	if s.Range == nil {
		return nil
	}
	return [][]any{{s.Range.MinAge, s.Range.MaxAge}}
}

// PhotoSet replaces crew_photos; display order follows slice position.
type PhotoSet []string

func (s PhotoSet) Kind() ChildKind { return ChildPhotos }

func (s PhotoSet) Rows() [][]any {
	rows := make([][]any, 0, len(s))
	for i, url := range s {
		rows = append(rows, []any{url, i})
	}
	return rows
}
